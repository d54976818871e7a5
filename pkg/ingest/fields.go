package ingest

import (
	"bufio"
	"io"
	"strings"

	"github.com/plumetab/plumetab/pkg/errors"
)

// fieldsPrefix starts the PLUMED header line: "#! FIELDS time phi0 psi0 ..."
const fieldsPrefix = "#!"

// ReadFields parses the leading PLUMED FIELDS header and returns the column
// names in file order.
func ReadFields(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		return parseFieldsHeader(line)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "cannot read header")
	}
	return nil, errors.New(errors.ErrorTypeData, "file is empty")
}

// FieldsFromFile reads the FIELDS header of a PLUMED output file.
func FieldsFromFile(path string) ([]string, error) {
	r, err := openFile(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	fields, err := ReadFields(r)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeData, "file "+path)
	}
	return fields, nil
}

func parseFieldsHeader(line string) ([]string, error) {
	if !strings.HasPrefix(line, fieldsPrefix) {
		return nil, errors.Newf(errors.ErrorTypeData,
			"expected %q header, got %q", fieldsPrefix+" FIELDS", line)
	}

	tokens := strings.Fields(strings.TrimPrefix(line, fieldsPrefix))
	if len(tokens) < 2 || tokens[0] != "FIELDS" {
		return nil, errors.Newf(errors.ErrorTypeData,
			"malformed FIELDS header %q", line)
	}
	return tokens[1:], nil
}
