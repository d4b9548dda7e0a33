// Package triage classifies a patient's condition into one of the four priority tiers.
package triage

import "github.com/ssm-mz/dispatch-api/models"

// Question is a yes/no discriminator
type Question struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Stage is one step of the telephone triage flow. Stage 0 collects intake data only.
type Stage struct {
	ID          int             `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Priority    models.Priority `json:"priority,omitempty"`
	Questions   []Question      `json:"questions"`
}

// Protocol is the SSM telephone triage decision tree, most severe stage first
var Protocol = []Stage{
	{
		ID:          0,
		Title:       "Validação Mínima (Etapa 0)",
		Description: "Identificação da origem corporativa e dados do paciente.",
		Questions:   []Question{},
	},
	{
		ID:          1,
		Title:       "Discriminadores Críticos (Etapa 1)",
		Description: "Identificação de perigo imediato de vida.",
		Priority:    models.PriorityCritical,
		Questions: []Question{
			{ID: "q1_1", Text: "A pessoa está inconsciente ou desmaiou?"},
			{ID: "q1_2", Text: "Dispneia grave ou não consegue falar frases completas?"},
			{ID: "q1_3", Text: "Há dor no peito forte, opressiva ou irradiando?"},
			{ID: "q1_4", Text: "Há/houve convulsão ou confusão súbita?"},
			{ID: "q1_5", Text: "Existe hemorragia activa que não para com compressão?"},
			{ID: "q1_6", Text: "Sofreu trauma grave na cabeça?"},
			{ID: "q1_7", Text: "Sofreu trauma grave no tórax/abdómen?"},
			{ID: "q1_8", Text: "Queda >2 m, esmagamento, explosão ou electrocussão?"},
			{ID: "q1_9", Text: "Há suspeita de AVC? (Boca torta, fraqueza de um lado, confusão)"},
		},
	},
	{
		ID:          2,
		Title:       "Discriminadores de Alto Risco (Etapa 2)",
		Description: "Sinais de gravidade elevada sem perigo imediato.",
		Priority:    models.PriorityHigh,
		Questions: []Question{
			{ID: "q2_1", Text: "Está consciente, mas sonolento?"},
			{ID: "q2_2", Text: "Dispneia moderada (com ou sem chiados)?"},
			{ID: "q2_3", Text: "Trauma na cabeça sem perda de consciência?"},
			{ID: "q2_4", Text: "Trauma torácico sem dispneia?"},
			{ID: "q2_5", Text: "Trauma abdominal sem perfuração?"},
			{ID: "q2_6", Text: "Dor torácica moderada (escala 4 – 7/10)?"},
			{ID: "q2_7", Text: "Fractura com exposição óssea?"},
			{ID: "q2_8", Text: "Queimadura extensa (mãos, pés, face ou genitália)?"},
			{ID: "q2_9", Text: "Confusão mental com ou sem febre alta?"},
		},
	},
	{
		ID:          3,
		Title:       "Urgência Estável (Etapa 3)",
		Description: "Condições que requerem avaliação mas estão estáveis.",
		Priority:    models.PriorityModerate,
		Questions: []Question{
			{ID: "q3_1", Text: "Cefaleia intensa sem perda de força ou confusão mental?"},
			{ID: "q3_2", Text: "Fractura sem exposição óssea?"},
			{ID: "q3_3", Text: "Entorse ou deslocamento ósseo?"},
			{ID: "q3_4", Text: "Cefaleia intensa?"},
			{ID: "q3_5", Text: "Mal-estar geral persistente?"},
			{ID: "q3_6", Text: "Pequenas queimaduras?"},
			{ID: "q3_7", Text: "Reacção alérgica moderada?"},
		},
	},
	{
		ID:          4,
		Title:       "Baixa Prioridade (Etapa 4)",
		Description: "Queixas ligeiras sem sinais de alarme.",
		Priority:    models.PriorityLow,
		Questions: []Question{
			{ID: "q4_1", Text: "Ferimentos superficiais?"},
			{ID: "q4_2", Text: "Dor Lombar?"},
			{ID: "q4_3", Text: "Pequenos acidentes sem trauma significativo?"},
			{ID: "q4_4", Text: "Vómitos com ou sem diarreia?"},
		},
	},
}

// actionFor is the operator instruction attached to a tier reached by a positive discriminator
func actionFor(p models.Priority) string {
	switch p {
	case models.PriorityCritical:
		return "EMERGÊNCIA - SAV/UCI"
	case models.PriorityHigh:
		return "MUITO URGENTE - SAV/UCI"
	case models.PriorityModerate:
		return "URGENTE - Ambulância Básica"
	}
	return "POUCO URGENTE - Veículo não médico"
}

func resourcesFor(p models.Priority) []string {
	if p == models.PriorityCritical || p == models.PriorityHigh {
		return []string{"Acionamento SAV", "Oxigénio", "Monitorização Contínua"}
	}
	return []string{"Ambulância Básica", "Atendimento no Local"}
}
