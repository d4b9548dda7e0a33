package triage

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ssm-mz/dispatch-api/models"
)

// Answers maps question ids to the caller's yes/no answer. Missing ids count as "no".
type Answers map[string]bool

// UnknownQuestionError lists answer ids that are not part of the protocol
type UnknownQuestionError struct {
	IDs []string
}

func (e *UnknownQuestionError) Error() string {
	return fmt.Sprintf("unknown triage question ids: %s", strings.Join(e.IDs, ", "))
}

func (e *UnknownQuestionError) Unwrap() error { return models.ErrValidation }

var known = func() map[string]int {
	m := map[string]int{}
	for _, s := range Protocol {
		for _, q := range s.Questions {
			m[q.ID] = s.ID
		}
	}
	return m
}()

// Evaluate walks stages 1..4 and stops at the first stage with a positive discriminator.
// A classification is never lowered once a stage fires.
func Evaluate(answers Answers) (models.ProtocolSuggestion, error) {
	var unknown []string
	for id := range answers {
		if _, ok := known[id]; !ok {
			unknown = append(unknown, id)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return models.ProtocolSuggestion{}, &UnknownQuestionError{IDs: unknown}
	}

	for _, stage := range Protocol[1:] {
		for _, q := range stage.Questions {
			if answers[q.ID] {
				return models.ProtocolSuggestion{
					Classification:     stage.Priority,
					ActionRequired:     actionFor(stage.Priority),
					Reasoning:          fmt.Sprintf("Classificação atribuída por discriminador positivo na Etapa %d do Protocolo de Triagem SSM.", stage.ID),
					SuggestedResources: resourcesFor(stage.Priority),
					Stage:              stage.ID,
				}, nil
			}
		}
	}

	return models.ProtocolSuggestion{
		Classification:     models.PriorityLow,
		ActionRequired:     "NÃO URGENTE (AZUL)",
		Reasoning:          "Nenhum discriminador de urgência detectado durante o fluxograma de triagem telefónica.",
		SuggestedResources: []string{"Acompanhamento Telefónico", "Encaminhamento para Clínica de Rede"},
		Stage:              len(Protocol) - 1,
	}, nil
}
