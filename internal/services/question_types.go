package services

import (
	"strings"

	"github.com/surveyforge/survey-service/internal/models"
	"github.com/surveyforge/survey-service/internal/validator"
)

// questionTypeBehavior bundles everything that differs between question types:
// how to tell an answer was given, how to turn a raw payload into answer rows,
// and how to aggregate answer rows into a result summary. Adding a question
// type means adding one entry here.
type questionTypeBehavior struct {
	usesOptions bool

	// hasAnswer reports whether the payload contains a usable answer.
	hasAnswer func(payload validator.AnswerPayload) bool

	// buildAnswers converts the payload into answer rows. Selected option ids
	// not belonging to the question are dropped; the count of dropped ids is
	// returned for diagnostics.
	buildAnswers func(q *models.Question, payload validator.AnswerPayload) ([]models.UserAnswer, int)

	// aggregate folds one question's answer rows into its result summary.
	aggregate func(q *models.Question, answers []models.UserAnswer, result *QuestionResult)
}

var questionTypeBehaviors = map[models.QuestionType]questionTypeBehavior{
	models.ShortText:     textBehavior(),
	models.ParagraphText: textBehavior(),

	models.SingleChoice: singleSelectBehavior(),
	models.Dropdown:     singleSelectBehavior(),

	models.MultipleChoice: {
		usesOptions: true,
		hasAnswer: func(p validator.AnswerPayload) bool {
			return len(p.SelectedOptionIDs) > 0
		},
		buildAnswers: buildChoiceAnswers,
		aggregate:    aggregateOptionCounts,
	},

	models.Scale: {
		usesOptions: true,
		hasAnswer: func(p validator.AnswerPayload) bool {
			return len(p.SelectedOptionIDs) > 0
		},
		buildAnswers: buildChoiceAnswers,
		aggregate:    aggregateScale,
	},
}

// behaviorFor returns the behavior for a question type. Unknown types report
// no answer and produce no rows, so a bad row in the database cannot break
// ingestion or aggregation.
func behaviorFor(t models.QuestionType) questionTypeBehavior {
	if b, ok := questionTypeBehaviors[t]; ok {
		return b
	}
	return questionTypeBehavior{
		hasAnswer:    func(validator.AnswerPayload) bool { return false },
		buildAnswers: func(*models.Question, validator.AnswerPayload) ([]models.UserAnswer, int) { return nil, 0 },
		aggregate:    func(*models.Question, []models.UserAnswer, *QuestionResult) {},
	}
}

func textBehavior() questionTypeBehavior {
	return questionTypeBehavior{
		hasAnswer: func(p validator.AnswerPayload) bool {
			return strings.TrimSpace(p.TextAnswer) != ""
		},
		buildAnswers: func(q *models.Question, p validator.AnswerPayload) ([]models.UserAnswer, int) {
			text := strings.TrimSpace(p.TextAnswer)
			if text == "" {
				return nil, 0
			}
			return []models.UserAnswer{{
				QuestionID: q.ID,
				TextAnswer: &text,
			}}, 0
		},
		aggregate: func(q *models.Question, answers []models.UserAnswer, result *QuestionResult) {
			for _, a := range answers {
				if a.TextAnswer != nil && strings.TrimSpace(*a.TextAnswer) != "" {
					result.TextAnswers = append(result.TextAnswers, *a.TextAnswer)
				}
			}
		},
	}
}

func singleSelectBehavior() questionTypeBehavior {
	return questionTypeBehavior{
		usesOptions: true,
		hasAnswer: func(p validator.AnswerPayload) bool {
			return len(p.SelectedOptionIDs) > 0
		},
		// Only the first owned option counts for single-select questions.
		buildAnswers: func(q *models.Question, p validator.AnswerPayload) ([]models.UserAnswer, int) {
			owned := optionIDSet(q)
			dropped := 0
			var answers []models.UserAnswer
			for _, id := range p.SelectedOptionIDs {
				if _, ok := owned[id]; !ok {
					dropped++
					continue
				}
				if len(answers) == 0 {
					optionID := id
					answers = append(answers, models.UserAnswer{
						QuestionID:       q.ID,
						SelectedOptionID: &optionID,
					})
				}
			}
			return answers, dropped
		},
		aggregate: aggregateOptionCounts,
	}
}

// buildChoiceAnswers produces one answer row per owned selected option,
// silently dropping ids that belong to other questions.
func buildChoiceAnswers(q *models.Question, p validator.AnswerPayload) ([]models.UserAnswer, int) {
	owned := optionIDSet(q)
	dropped := 0
	var answers []models.UserAnswer
	for _, id := range p.SelectedOptionIDs {
		if _, ok := owned[id]; !ok {
			dropped++
			continue
		}
		optionID := id
		answers = append(answers, models.UserAnswer{
			QuestionID:       q.ID,
			SelectedOptionID: &optionID,
		})
	}
	return answers, dropped
}

// aggregateOptionCounts counts selections per option. Options nobody picked
// stay at zero because the result is pre-seeded with every option.
func aggregateOptionCounts(q *models.Question, answers []models.UserAnswer, result *QuestionResult) {
	for _, a := range answers {
		if a.SelectedOptionID == nil {
			continue
		}
		if _, ok := result.OptionCounts[*a.SelectedOptionID]; ok {
			result.OptionCounts[*a.SelectedOptionID]++
		}
	}
}

// aggregateScale counts selections and averages the numeric value of the
// chosen options. Option order is the scale value; orders of zero or less do
// not contribute. No contributing answers means an average of zero.
func aggregateScale(q *models.Question, answers []models.UserAnswer, result *QuestionResult) {
	aggregateOptionCounts(q, answers, result)

	orderByOption := make(map[uint]int, len(q.Options))
	for _, o := range q.Options {
		orderByOption[o.ID] = o.Order
	}

	sum, n := 0, 0
	for _, a := range answers {
		if a.SelectedOptionID == nil {
			continue
		}
		order, ok := orderByOption[*a.SelectedOptionID]
		if !ok || order <= 0 {
			continue
		}
		sum += order
		n++
	}

	if n > 0 {
		result.AverageScore = float64(sum) / float64(n)
	}
}

func optionIDSet(q *models.Question) map[uint]struct{} {
	set := make(map[uint]struct{}, len(q.Options))
	for _, o := range q.Options {
		set[o.ID] = struct{}{}
	}
	return set
}
