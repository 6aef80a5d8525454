package decision

import (
	"fmt"
	"slices"
	"strings"
	"text/template"
	"time"

	"github.com/samber/lo"

	"github.com/OldStager01/scaling-advisor/pkg/models"
)

type seriesLabel struct {
	Title  string
	Format string
}

var knownSeries = map[string]seriesLabel{
	"cpu_util":           {Title: "Pod CPU Utilization (%)", Format: "%.1f"},
	"mem_util":           {Title: "Pod Memory Utilization (%)", Format: "%.1f"},
	"api_requests":       {Title: "API Request Count", Format: "%.0f"},
	"api_latency":        {Title: "API Latency (ms)", Format: "%.0f"},
	"lambda_invocations": {Title: "Lambda Invocations", Format: "%.0f"},
	"lambda_duration":    {Title: "Lambda Duration (ms)", Format: "%.0f"},
}

const promptTemplate = `You are monitoring the Kubernetes deployment {{.Deployment.Name}} (namespace {{.Deployment.Namespace}}, cluster {{.Deployment.Cluster}}) and deciding whether its replica count should change.

TRIGGER:
- Alarm: {{.Alarm.Name}}
- State: {{.Alarm.State}}
- Reason: {{.Alarm.Reason}}
- Metric: {{.Alarm.MetricName}}
- Threshold: {{.Alarm.Threshold}}
- Time: {{.Alarm.Timestamp}}

WORKLOAD METRICS (last {{.Window}}):
{{- range .Series}}
- {{.Title}}: Current={{.Current}}, Average={{.Average}}, Trend={{.Trend}}
{{- else}}
- no metric series available
{{- end}}

SCALING CONSTRAINTS:
- Minimum Replicas: {{.Bounds.Min}}
- Maximum Replicas: {{.Bounds.Max}}

INSTRUCTIONS:
1. Decide whether scaling is needed from the alarm and the metrics.
2. Treat increasing trends as a reason to scale ahead of demand.
3. Choose exactly one action: SCALE_UP, SCALE_DOWN or NO_ACTION.
4. Give the target replica count, between {{.Bounds.Min}} and {{.Bounds.Max}}.
5. Explain the decision briefly.

Respond with a single JSON object:
{
  "action": "SCALE_UP|SCALE_DOWN|NO_ACTION",
  "target_replicas": <integer between {{.Bounds.Min}} and {{.Bounds.Max}}>,
  "confidence": <0.0 to 1.0>,
  "reasoning": "<brief explanation>",
  "urgency": "LOW|MEDIUM|HIGH"
}

Provide only valid JSON, no additional text.`

var prompt = template.Must(template.New("decision").Parse(promptTemplate))

type promptSeries struct {
	Title   string
	Current string
	Average string
	Trend   models.Trend
}

type promptData struct {
	Deployment models.DeploymentRef
	Alarm      models.AlarmContext
	Window     string
	Series     []promptSeries
	Bounds     models.Bounds
}

func (e *Engine) renderPrompt(alarm models.AlarmContext, metrics models.MetricsSnapshot, bounds models.Bounds) (string, error) {
	data := promptData{
		Deployment: e.config.Deployment,
		Alarm:      alarm,
		Window:     formatWindow(e.config.Window),
		Bounds:     bounds,
	}

	for _, id := range e.seriesOrder(metrics) {
		summary := metrics.Get(id)
		label, ok := knownSeries[id]
		if !ok {
			label = seriesLabel{Title: id, Format: "%.2f"}
		}
		data.Series = append(data.Series, promptSeries{
			Title:   label.Title,
			Current: fmt.Sprintf(label.Format, summary.Current),
			Average: fmt.Sprintf(label.Format, summary.Average),
			Trend:   summary.Trend,
		})
	}

	var sb strings.Builder
	if err := prompt.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return sb.String(), nil
}

// seriesOrder lists configured series first, then any extra ids present in
// the snapshot in sorted order.
func (e *Engine) seriesOrder(metrics models.MetricsSnapshot) []string {
	extra := lo.Filter(lo.Keys(metrics), func(id string, _ int) bool {
		return !slices.Contains(e.config.SeriesOrder, id)
	})
	slices.Sort(extra)
	return append(slices.Clone(e.config.SeriesOrder), extra...)
}

func formatWindow(window time.Duration) string {
	return fmt.Sprintf("%.0f minutes", window.Minutes())
}
