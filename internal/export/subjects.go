package export

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sadopc/studyplan/internal/planner"
)

type subjectFile struct {
	Subjects []planner.Subject `yaml:"subjects"`
}

// ReadSubjects loads a subject list from YAML. Both a top-level list and a
// document with a "subjects" key are accepted; JSON works too.
func ReadSubjects(path string) ([]planner.Subject, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read subjects file: %w", err)
	}
	return decodeSubjects(data)
}

func decodeSubjects(data []byte) ([]planner.Subject, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse subjects: %w", err)
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}

	root := doc.Content[0]
	var subjects []planner.Subject
	switch root.Kind {
	case yaml.SequenceNode:
		if err := root.Decode(&subjects); err != nil {
			return nil, fmt.Errorf("decode subjects: %w", err)
		}
	case yaml.MappingNode:
		var f subjectFile
		if err := root.Decode(&f); err != nil {
			return nil, fmt.Errorf("decode subjects: %w", err)
		}
		subjects = f.Subjects
	default:
		return nil, fmt.Errorf("parse subjects: expected a list or a mapping, line %d", root.Line)
	}
	return subjects, nil
}

func WriteSubjects(subjects []planner.Subject, path string) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(subjectFile{Subjects: subjects}); err != nil {
		return fmt.Errorf("encode subjects: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode subjects: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write subjects file: %w", err)
	}
	return nil
}
