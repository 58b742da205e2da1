package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/ericfisherdev/accountdesk/internal/application"
	"github.com/ericfisherdev/accountdesk/internal/domain/model"
)

// Format is an output encoding.
type Format string

const (
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatTable Format = "table"
)

// Valid reports whether f is a supported format.
func (f Format) Valid() bool {
	switch f {
	case FormatJSON, FormatYAML, FormatTable:
		return true
	default:
		return false
	}
}

type accountView struct {
	ID       string   `json:"id" yaml:"id"`
	Type     string   `json:"type" yaml:"type"`
	Login    string   `json:"login" yaml:"login"`
	Password *string  `json:"password" yaml:"password"`
	Labels   []string `json:"labels" yaml:"labels"`
}

// Writer renders command results in the selected format.
type Writer struct {
	out    io.Writer
	format Format
}

// NewWriter creates a Writer for out.
func NewWriter(out io.Writer, format Format) Writer {
	return Writer{out: out, format: format}
}

// Accounts writes accounts. Table output masks passwords.
func (w Writer) Accounts(accounts []model.Account) error {
	views := make([]accountView, 0, len(accounts))
	for _, a := range accounts {
		labels := make([]string, 0, len(a.Labels))
		for _, l := range a.Labels {
			labels = append(labels, l.Text)
		}
		views = append(views, accountView{
			ID:       a.ID,
			Type:     string(a.Type),
			Login:    a.Login,
			Password: a.Password,
			Labels:   labels,
		})
	}

	if w.format != FormatTable {
		return w.encode(views)
	}

	tw := tabwriter.NewWriter(w.out, 0, 2, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tTYPE\tLOGIN\tPASSWORD\tLABELS")
	for _, a := range accounts {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			a.ID, a.Type, a.Login, maskPassword(a.Password), application.FormatLabels(a.Labels))
	}
	return tw.Flush()
}

// Labels writes parsed label texts.
func (w Writer) Labels(labels []model.LabelItem) error {
	texts := make([]string, 0, len(labels))
	for _, l := range labels {
		texts = append(texts, l.Text)
	}

	if w.format != FormatTable {
		return w.encode(texts)
	}

	for _, t := range texts {
		if _, err := fmt.Fprintln(w.out, t); err != nil {
			return err
		}
	}
	return nil
}

func (w Writer) encode(v any) error {
	switch w.format {
	case FormatJSON:
		enc := json.NewEncoder(w.out)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		b, err := yaml.Marshal(v)
		if err != nil {
			return err
		}
		_, err = w.out.Write(b)
		return err
	default:
		return fmt.Errorf("invalid output format %q", w.format)
	}
}

func maskPassword(p *string) string {
	switch {
	case p == nil:
		return "-"
	case *p == "":
		return ""
	default:
		return "********"
	}
}
