package canopy

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// LoadASCIIGrid reads an ESRI ASCII grid (.asc) canopy-height model into
// memory. The format is a short key/value header (ncols, nrows, xllcorner,
// yllcorner, cellsize, optional nodata_value) followed by whitespace-
// separated cell values, northernmost row first.
func LoadASCIIGrid(path string) (*Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 1024*1024), 16*1024*1024)

	header := map[string]float64{}
	var rows [][]float64
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) == 2 && !isNumeric(fields[0]) {
			v, err := strconv.ParseFloat(fields[1], 64)
			if err != nil {
				return nil, fmt.Errorf("%s: bad header line %q: %w", path, scanner.Text(), err)
			}
			header[strings.ToLower(fields[0])] = v
			continue
		}
		row := make([]float64, len(fields))
		for i, field := range fields {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("%s: bad cell value %q: %w", path, field, err)
			}
			row[i] = v
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	ncols, nrows := int(header["ncols"]), int(header["nrows"])
	cellsize := header["cellsize"]
	if ncols <= 0 || nrows <= 0 || cellsize <= 0 {
		return nil, fmt.Errorf("%s: incomplete grid header (ncols/nrows/cellsize)", path)
	}
	if len(rows) != nrows {
		return nil, fmt.Errorf("%s: header declares %d rows, found %d", path, nrows, len(rows))
	}
	for i, row := range rows {
		if len(row) != ncols {
			return nil, fmt.Errorf("%s: row %d has %d columns, header declares %d", path, i, len(row), ncols)
		}
	}

	nodata, hasNodata := header["nodata_value"]
	g := NewGrid(rows, header["xllcorner"], header["yllcorner"], cellsize, nodata)
	g.hasNodata = hasNodata
	return g, nil
}

func isNumeric(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}
