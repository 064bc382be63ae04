package dto

// QuestionRequest — один вопрос при создании викторины
type QuestionRequest struct {
	Text          string   `json:"text" binding:"required"`
	AnswerChoices []string `json:"answer_choices" binding:"required,min=2"`
	CorrectAnswer string   `json:"correct_answer" binding:"required"`
}

// CreateQuizRequest — запрос создания викторины вместе с вопросами
type CreateQuizRequest struct {
	Name          string            `json:"name" binding:"required"`
	Description   string            `json:"description"`
	FrequencyDays int               `json:"frequency_days" binding:"gte=0"`
	Questions     []QuestionRequest `json:"questions" binding:"required,min=2,dive"`
}

// UpdateQuizRequest — частичное обновление викторины
type UpdateQuizRequest struct {
	Name          *string `json:"name"`
	Description   *string `json:"description"`
	FrequencyDays *int    `json:"frequency_days"`
}

// UpdateQuestionRequest — частичное обновление вопроса
type UpdateQuestionRequest struct {
	Text          *string  `json:"text"`
	AnswerChoices []string `json:"answer_choices"`
	CorrectAnswer *string  `json:"correct_answer"`
}

// TakeQuizRequest — ответы одной попытки: question_id → выбранный вариант.
// Пропущенные вопросы засчитываются как неверные.
type TakeQuizRequest struct {
	Answers map[uint]string `json:"answers" binding:"required"`
}
