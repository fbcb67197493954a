package ref

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrUnknownStateCode means a code resolved from the airport tables has
// no entry in the state-name table. Callers must not abort the run on
// this; what happens to the affected flight is policy (see
// pipeline.UnknownStatePolicy).
var ErrUnknownStateCode = errors.New("unknown state code")

// StateTable maps two/three-letter state codes to full names. The
// source file's first line is a provenance comment; the second is the
// header row (state_code \t state_name).
type StateTable struct {
	byCode map[string]string
}

func (t *StateTable) Has(code string) bool {
	_, exists := t.byCode[code]
	return exists
}

func (t *StateTable) Name(code string) (string, error) {
	name, exists := t.byCode[code]
	if !exists {
		return "", fmt.Errorf("%w: %q", ErrUnknownStateCode, code)
	}
	return name, nil
}

func (t *StateTable) Len() int { return len(t.byCode) }

func LoadStateTable(path string) (*StateTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rdr := csv.NewReader(f)
	rdr.Comma = '\t'
	rdr.FieldsPerRecord = -1

	if _, err := rdr.Read(); err != nil { // provenance line
		return nil, fmt.Errorf("provenance line: %v", err)
	}
	headers, err := rdr.Read()
	if err != nil {
		return nil, fmt.Errorf("header row: %v", err)
	}
	codeCol, nameCol := -1, -1
	for i, h := range headers {
		switch strings.TrimSpace(h) {
		case "state_code":
			codeCol = i
		case "state_name":
			nameCol = i
		}
	}
	if codeCol < 0 || nameCol < 0 {
		return nil, fmt.Errorf("header row missing state_code/state_name: %v", headers)
	}

	t := StateTable{byCode: map[string]string{}}
	for {
		fields, err := rdr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if codeCol >= len(fields) || nameCol >= len(fields) {
			return nil, fmt.Errorf("short row: %v", fields)
		}
		code := strings.TrimSpace(fields[codeCol])
		name := strings.TrimSpace(fields[nameCol])
		if code == "" || name == "" {
			return nil, fmt.Errorf("blank state code or name: %v", fields)
		}
		t.byCode[code] = name
	}

	return &t, nil
}
