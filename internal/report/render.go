package report

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"
)

//go:embed templates/report.html.tmpl
var templateFS embed.FS

var reportTemplate = template.Must(template.New("report.html.tmpl").Funcs(template.FuncMap{
	"num":     formatNumber,
	"passing": func(rate float64) bool { return rate >= 95 },
}).ParseFS(templateFS, "templates/report.html.tmpl"))

// Recommendation is one advisory block at the end of the report.
type Recommendation struct {
	// Level is one of "warning", "success" or "info".
	Level string
	Title string
	Text  string
}

type concept struct {
	Name        string
	Description string
}

var concepts = []concept{
	{"Thresholds", "Critérios de aceitação para latência, taxa de checks e métricas personalizadas."},
	{"Checks", "Múltiplas validações por requisição: status, tempo de resposta, JSON e campos esperados."},
	{"Helpers", "Funções reutilizáveis para validação, geração de dados e autenticação."},
	{"Trends", "Métricas personalizadas: login_duration, register_duration, auth_failures, token_validations."},
	{"Faker", "Geração de dados brasileiros realísticos: nomes, emails, senhas aleatórias."},
	{"Stages", "Simulação realística de carga: ramp-up, sustentação e ramp-down."},
	{"Token Auth", "Tokens extraídos das respostas e enviados no header Authorization Bearer."},
}

type view struct {
	*Data
	GeneratedAt     string
	Concepts        []concept
	Recommendations []Recommendation
}

// Render writes the HTML report for d. generatedAt is shown in the header
// and footer in pt-BR format.
func Render(w io.Writer, d *Data, generatedAt time.Time) error {
	v := view{
		Data:            d,
		GeneratedAt:     generatedAt.Format("02/01/2006 15:04:05"),
		Concepts:        concepts,
		Recommendations: Recommend(d),
	}
	if err := reportTemplate.Execute(w, v); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return nil
}

// RenderBytes is Render into memory.
func RenderBytes(d *Data, generatedAt time.Time) ([]byte, error) {
	var buf bytes.Buffer
	if err := Render(&buf, d, generatedAt); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Recommend derives advice from the results.
func Recommend(d *Data) []Recommendation {
	var out []Recommendation
	var failed []string
	for _, t := range d.Thresholds {
		if !t.Pass {
			failed = append(failed, t.Name)
		}
	}

	if len(failed) > 0 {
		out = append(out, Recommendation{
			Level: "warning",
			Title: "Thresholds reprovados",
			Text:  fmt.Sprintf("Critérios não atendidos: %s. Investigue os checks com falha e os tempos de resposta antes de aumentar a carga.", strings.Join(failed, ", ")),
		})
	}
	if d.Trends.AuthFailures.Count > 0 {
		out = append(out, Recommendation{
			Level: "warning",
			Title: "Falhas de autenticação",
			Text:  fmt.Sprintf("%d registros ou logins esperados falharam durante o teste.", d.Trends.AuthFailures.Count),
		})
	}
	if len(failed) == 0 && d.Passed() {
		out = append(out, Recommendation{
			Level: "success",
			Title: "Performance Excelente",
			Text: fmt.Sprintf("Tempo médio de resposta de %sms com %d usuários virtuais simultâneos.",
				formatNumber(d.AvgResponseMs), d.VUs),
		})
	}
	out = append(out, Recommendation{
		Level: "info",
		Title: "Melhorias Sugeridas",
		Text:  "Assinar os tokens e validá-los no servidor. Adicionar validação mais rigorosa de dados de entrada. Configurar rate limiting para testes de carga mais realísticos.",
	})
	return out
}

func formatNumber(v float64) string {
	return fmt.Sprintf("%g", roundTo(v, 2))
}
