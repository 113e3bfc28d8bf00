package email

import (
	"bytes"
	"html/template"
)

const subjectMergeReview = "Mesclagem de leads aguardando revisão"

type mergeReviewEmailData struct {
	SurvivorID string
	ArchivedID string
	Fields     []string
}

var mergeReviewTemplate = template.Must(template.New("merge_review").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: sans-serif; color: #1f2933;">
  <h2>Mesclagem aguardando revisão</h2>
  <p>Dois leads foram mesclados, mas alguns campos exigem decisão manual.</p>
  <p>
    Lead principal: <strong>{{.SurvivorID}}</strong><br>
    Lead arquivado: <strong>{{.ArchivedID}}</strong>
  </p>
  <p>Campos pendentes:</p>
  <ul>
  {{range .Fields}}<li>{{.}}</li>{{end}}
  </ul>
  <p>Acesse o painel para concluir a revisão.</p>
</body>
</html>`))

func renderMergeReviewEmail(data mergeReviewEmailData) (string, error) {
	var buf bytes.Buffer
	if err := mergeReviewTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
