package models

import (
	"bytes"
	"fmt"

	json "github.com/goccy/go-json"
)

// Scores is the persisted blob: a flat object keyed by participant id.
type Scores map[string]*ParticipantStats

// UnmarshalJSON records each participant's position in the blob in LoadSeq,
// so ties between records without a creation time keep the file's order.
func (s *Scores) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*s = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("scores: expected object, got %v", tok)
	}

	out := make(Scores)
	for seq := 0; dec.More(); seq++ {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		id, ok := tok.(string)
		if !ok {
			return fmt.Errorf("scores: expected participant id, got %v", tok)
		}
		var st *ParticipantStats
		if err := dec.Decode(&st); err != nil {
			return fmt.Errorf("scores: record %q: %w", id, err)
		}
		if st != nil {
			st.LoadSeq = seq
		}
		out[id] = st
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*s = out
	return nil
}
