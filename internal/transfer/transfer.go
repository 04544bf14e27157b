// Package transfer moves task lists in and out of the slot as markdown
// checklists, JSON, YAML or TOML.
package transfer

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"

	"github.com/rogersnm/todomaster/internal/model"
	"github.com/rogersnm/todomaster/internal/tasklist"
)

type Format string

const (
	FormatMarkdown Format = "md"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatTOML     Format = "toml"
)

var Formats = []Format{FormatMarkdown, FormatJSON, FormatYAML, FormatTOML}

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "md", "markdown":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "toml":
		return FormatTOML, nil
	}
	return "", fmt.Errorf("unknown format %q (want md, json, yaml or toml)", s)
}

// FormatFromPath guesses the format from a file extension, falling back to
// markdown.
func FormatFromPath(path string) Format {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if f, err := ParseFormat(ext); err == nil {
		return f
	}
	return FormatMarkdown
}

// Document is an exported list.
type Document struct {
	List       string       `yaml:"list" toml:"list"`
	ExportedAt time.Time    `yaml:"exported_at" toml:"exported_at"`
	Stats      model.Stats  `yaml:"stats" toml:"stats"`
	Tasks      []model.Task `yaml:"tasks" toml:"tasks"`
}

// NewDocument snapshots tasks for export.
func NewDocument(list string, tasks []model.Task, now time.Time) Document {
	return Document{
		List:       list,
		ExportedAt: now.UTC().Truncate(time.Second),
		Stats:      model.ComputeStats(tasks),
		Tasks:      tasks,
	}
}

type markdownMeta struct {
	List       string      `yaml:"list,omitempty"`
	ExportedAt time.Time   `yaml:"exported_at"`
	Stats      model.Stats `yaml:",inline"`
}

func Export(w io.Writer, f Format, doc Document) error {
	var data []byte
	var err error
	switch f {
	case FormatMarkdown:
		data, err = marshalMarkdown(doc)
	case FormatJSON:
		tasks := doc.Tasks
		if tasks == nil {
			tasks = []model.Task{}
		}
		data, err = json.MarshalIndent(tasks, "", "  ")
		data = append(data, '\n')
	case FormatYAML:
		data, err = yaml.Marshal(doc)
	case FormatTOML:
		data, err = toml.Marshal(doc)
	default:
		return fmt.Errorf("unknown format %q", f)
	}
	if err != nil {
		return fmt.Errorf("encoding %s: %w", f, err)
	}
	_, err = w.Write(data)
	return err
}

func marshalMarkdown(doc Document) ([]byte, error) {
	header, err := yaml.Marshal(markdownMeta{List: doc.List, ExportedAt: doc.ExportedAt, Stats: doc.Stats})
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(header)
	buf.WriteString("---\n\n")
	for _, t := range doc.Tasks {
		mark := " "
		if t.Completed {
			mark = "x"
		}
		fmt.Fprintf(&buf, "- [%s] %s\n", mark, strings.ReplaceAll(t.Text, "\n", " "))
	}
	return buf.Bytes(), nil
}

// Import reads tasks from r. The result keeps text, completion and, where the
// format carries it, creation time; ids are always reassigned on append.
func Import(r io.Reader, f Format) ([]tasklist.Draft, error) {
	switch f {
	case FormatMarkdown:
		return importMarkdown(r)
	case FormatJSON:
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}
		tasks, err := tasklist.Decode(data)
		if err != nil {
			return nil, err
		}
		return drafts(tasks), nil
	case FormatYAML:
		var doc Document
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil && err != io.EOF {
			return nil, fmt.Errorf("parsing yaml: %w", err)
		}
		return drafts(doc.Tasks), nil
	case FormatTOML:
		var doc Document
		if _, err := toml.NewDecoder(r).Decode(&doc); err != nil {
			return nil, fmt.Errorf("parsing toml: %w", err)
		}
		return drafts(doc.Tasks), nil
	}
	return nil, fmt.Errorf("unknown format %q", f)
}

func drafts(tasks []model.Task) []tasklist.Draft {
	out := make([]tasklist.Draft, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, tasklist.Draft{Text: t.Text, Completed: t.Completed, CreatedAt: t.CreatedAt})
	}
	return out
}

var checklistItem = regexp.MustCompile(`^\s*[-*+]\s+(?:\[([ xX])\](?:\s+|$))?(.*)$`)

func importMarkdown(r io.Reader) ([]tasklist.Draft, error) {
	var meta markdownMeta
	body, err := frontmatter.Parse(r, &meta)
	if err != nil {
		return nil, fmt.Errorf("parsing frontmatter: %w", err)
	}
	var out []tasklist.Draft
	sc := bufio.NewScanner(bytes.NewReader(body))
	for sc.Scan() {
		m := checklistItem.FindStringSubmatch(sc.Text())
		if m == nil || strings.TrimSpace(m[2]) == "" {
			continue
		}
		out = append(out, tasklist.Draft{Text: m[2], Completed: m[1] == "x" || m[1] == "X"})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading checklist: %w", err)
	}
	return out, nil
}
