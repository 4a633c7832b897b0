// Package boards maps a short board identifier (e.g. "uno") onto the
// target.Params a Session needs to program it. The table is a static
// YAML document embedded into the binary; adding a board is adding a
// row, never a code change.
package boards

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v2"

	"github.com/avrprog/stk500v1/target"
)

//go:embed boards.yaml
var tableYAML []byte

type usbIDRow struct {
	VID uint16 `yaml:"vid"`
	PID uint16 `yaml:"pid"`
}

type boardRow struct {
	ID          string     `yaml:"id"`
	Description string     `yaml:"description"`
	PageSize    int        `yaml:"page_size"`
	NumPages    int        `yaml:"num_pages"`
	Baud        int        `yaml:"baud"`
	Signature   [3]byte    `yaml:"signature"`
	ProductID   []usbIDRow `yaml:"product_id"`
}

func (r boardRow) toParams() target.Params {
	ids := make([]target.USBID, len(r.ProductID))
	for i, u := range r.ProductID {
		ids[i] = target.USBID{VID: u.VID, PID: u.PID}
	}
	return target.Params{
		Baud:            r.Baud,
		DeviceSignature: r.Signature,
		PageSize:        r.PageSize,
		NumPages:        r.NumPages,
		ProductID:       ids,
	}
}

var (
	once  sync.Once
	table map[string]target.Params
	// parseErr records a failure to parse the embedded table. It can
	// only be non-nil if boards.yaml itself is malformed, which would
	// be caught by any test that calls Lookup.
	parseErr error
)

func load() {
	var rows []boardRow
	if err := yaml.Unmarshal(tableYAML, &rows); err != nil {
		parseErr = fmt.Errorf("boards: parse table: %w", err)
		return
	}
	table = make(map[string]target.Params, len(rows))
	for _, r := range rows {
		table[r.ID] = r.toParams()
	}
}

// Lookup returns the target.Params registered for id, with Port left
// empty for the caller to fill in. The second return value is false
// when id is not in the table.
func Lookup(id string) (target.Params, bool) {
	once.Do(load)
	if parseErr != nil {
		return target.Params{}, false
	}
	p, ok := table[id]
	return p, ok
}

// IDs returns every board identifier in the table, for CLI usage text.
func IDs() []string {
	once.Do(load)
	ids := make([]string, 0, len(table))
	for id := range table {
		ids = append(ids, id)
	}
	return ids
}
