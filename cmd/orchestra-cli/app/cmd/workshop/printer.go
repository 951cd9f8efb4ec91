package workshop

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"gopkg.in/yaml.v3"
	"k8s.io/apimachinery/pkg/util/duration"

	"github.com/orchestra-io/orchestra/internal/workshop"
)

const (
	outputTable = "table"
	outputJSON  = "json"
	outputYAML  = "yaml"
)

func validateOutput(format string) error {
	switch format {
	case outputTable, outputJSON, outputYAML:
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// printer renders workshops. now is injected so ages are reproducible.
type printer struct {
	out    io.Writer
	format string
	now    func() time.Time
}

func newPrinter(out io.Writer, format string) *printer {
	return &printer{out: out, format: format, now: time.Now}
}

func (p *printer) printWorkshops(items []workshop.Workshop, single bool) error {
	switch p.format {
	case outputJSON, outputYAML:
		var v any = items
		if single && len(items) == 1 {
			v = items[0]
		}

		return p.printObject(v)
	default:
		w := tabwriter.NewWriter(p.out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tPHASE\tIMAGE\tEXPIRES\tAGE\tURL")

		for _, ws := range items {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				ws.Name,
				ws.Status.Phase,
				ws.Spec.Image,
				p.until(ws.Status.ExpiresAt),
				p.age(ws.CreatedAt),
				orNone(ws.Status.URL),
			)
		}

		return w.Flush()
	}
}

func (p *printer) printStatus(name string, st workshop.Status) error {
	if p.format != outputTable {
		return p.printObject(map[string]any{"name": name, "status": st})
	}

	w := tabwriter.NewWriter(p.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Name:\t%s\n", name)
	fmt.Fprintf(w, "Phase:\t%s\n", st.Phase)
	fmt.Fprintf(w, "Pod ready:\t%t\n", st.PodReady)
	fmt.Fprintf(w, "Ingress ready:\t%t\n", st.IngressReady)
	fmt.Fprintf(w, "Expires:\t%s\n", p.until(st.ExpiresAt))
	fmt.Fprintf(w, "URL:\t%s\n", orNone(st.URL))

	if st.Message != "" {
		fmt.Fprintf(w, "Message:\t%s\n", st.Message)
	}

	return w.Flush()
}

// printObject round-trips through JSON so the YAML keys match the API.
func (p *printer) printObject(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	var obj any
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("failed to parse JSON: %w", err)
	}

	if p.format == outputYAML {
		out, err := yaml.Marshal(obj)
		if err != nil {
			return fmt.Errorf("failed to marshal YAML: %w", err)
		}

		_, err = p.out.Write(out)

		return err
	}

	enc := json.NewEncoder(p.out)
	enc.SetIndent("", "  ")

	return enc.Encode(obj)
}

func (p *printer) age(t time.Time) string {
	if t.IsZero() {
		return "<unknown>"
	}

	return duration.HumanDuration(p.now().Sub(t))
}

func (p *printer) until(t time.Time) string {
	if t.IsZero() {
		return "<unknown>"
	}

	d := t.Sub(p.now())
	if d <= 0 {
		return "expired"
	}

	return "in " + duration.HumanDuration(d)
}

func orNone(s string) string {
	if s == "" {
		return "<none>"
	}

	return s
}
