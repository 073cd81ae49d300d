// Package dataset prepares the training files consumed by the external
// fine-tuning scripts: generator dialogue lines and role classifier rows.
package dataset

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"strings"

	"medi-response-service/internal/service/classifier"
)

const (
	// EndOfText separates the doctor line from the relative reply.
	EndOfText = "<|endoftext|>"

	DoctorColumn   = "Input (Doctor)"
	RelativeColumn = "Target (Relative)"
	InputColumn    = "Input"
	TargetColumn   = "Target"

	DialogueTestFraction = 0.3
	DialogueSeed         = 42
	RoleTestFraction     = 0.2
	RoleSeed             = 27
)

var ErrMissingColumn = errors.New("dataset: missing column")

// RoleExample is one labelled sentence for the role classifier.
type RoleExample struct {
	Text  string               `json:"text"`
	Label classifier.RoleLabel `json:"label"`
}

// Dialogues reads a doctor/relative CSV and returns one
// "doctor <|endoftext|> relative" line per row.
func Dialogues(r io.Reader) ([]string, error) {
	rows, err := readColumns(r, DoctorColumn, RelativeColumn)
	if err != nil {
		return nil, err
	}
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		doctor, relative := oneLine(row[0]), oneLine(row[1])
		if doctor == "" && relative == "" {
			continue
		}
		lines = append(lines, doctor+" "+EndOfText+" "+relative)
	}
	return lines, nil
}

// RoleExamples reads an emotion CSV. Every Input becomes a doctor example and
// every Target a relative example; doctor rows come first.
func RoleExamples(r io.Reader) ([]RoleExample, error) {
	rows, err := readColumns(r, InputColumn, TargetColumn)
	if err != nil {
		return nil, err
	}
	var doctors, relatives []RoleExample
	for _, row := range rows {
		if t := oneLine(row[0]); t != "" {
			doctors = append(doctors, RoleExample{Text: t, Label: classifier.Doctor})
		}
		if t := oneLine(row[1]); t != "" {
			relatives = append(relatives, RoleExample{Text: t, Label: classifier.Relative})
		}
	}
	return append(doctors, relatives...), nil
}

// Split shuffles a copy of items with a seeded source and returns the train
// and test partitions. The test partition holds ceil(testFraction*n) items.
func Split[T any](items []T, testFraction float64, seed uint64) (train, test []T) {
	shuffled := make([]T, len(items))
	copy(shuffled, items)
	rng := rand.New(rand.NewPCG(seed, seed))
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	nTest := int(math.Ceil(testFraction * float64(len(shuffled))))
	if nTest > len(shuffled) {
		nTest = len(shuffled)
	}
	return shuffled[nTest:], shuffled[:nTest]
}

// WriteLines writes one line per element.
func WriteLines(w io.Writer, lines []string) error {
	bw := bufio.NewWriter(w)
	for _, l := range lines {
		if _, err := bw.WriteString(l + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteJSONL writes one JSON object per line.
func WriteJSONL(w io.Writer, examples []RoleExample) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	for _, e := range examples {
		if err := enc.Encode(e); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// readColumns returns the named columns of every record, in the order given.
func readColumns(r io.Reader, names ...string) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty file", ErrMissingColumn)
		}
		return nil, err
	}
	idx := make([]int, len(names))
	for i, name := range names {
		idx[i] = -1
		for j, h := range header {
			if strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")) == name {
				idx[i] = j
				break
			}
		}
		if idx[i] < 0 {
			return nil, fmt.Errorf("%w: %q", ErrMissingColumn, name)
		}
	}

	var out [][]string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		row := make([]string, len(idx))
		for i, j := range idx {
			if j < len(rec) {
				row[i] = rec[j]
			}
		}
		out = append(out, row)
	}
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
