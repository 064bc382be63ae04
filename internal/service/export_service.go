package service

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"log"
	"sort"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/yourusername/quizium-api/internal/domain/entity"
	"github.com/yourusername/quizium-api/internal/domain/repository"
	apperrors "github.com/yourusername/quizium-api/internal/pkg/errors"
)

// ExportService читает транскрипты ответов из кеша и отдает их как
// JSON, CSV или XLSX. Кеш не авторитетен: истекшие транскрипты
// просто отсутствуют в выгрузке.
type ExportService struct {
	cacheRepo repository.CacheRepository
	roles     roleChecker
}

// NewExportService создает новый сервис экспорта
func NewExportService(cacheRepo repository.CacheRepository, roles roleChecker) *ExportService {
	return &ExportService{cacheRepo: cacheRepo, roles: roles}
}

// GetTranscripts возвращает сохраненные ответы одной попытки.
// Доступ: сам пользователь либо владелец/администратор компании.
func (s *ExportService) GetTranscripts(userID, companyID, quizID, actorID uint) ([]entity.AnswerTranscript, error) {
	if actorID != userID {
		ok, err := s.roles.CanManageQuizzes(companyID, actorID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: only the user or a company manager can export answers", apperrors.ErrForbidden)
		}
	}

	pattern := entity.TranscriptKeyPrefix(userID, companyID, quizID) + "*"
	keys, err := s.cacheRepo.Keys(pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to scan transcript keys: %w", err)
	}
	sort.Strings(keys)

	transcripts := make([]entity.AnswerTranscript, 0, len(keys))
	for _, key := range keys {
		var t entity.AnswerTranscript
		if err := s.cacheRepo.GetJSON(key, &t); err != nil {
			// Ключ мог истечь между SCAN и чтением
			log.Printf("[ExportService] Пропущен ключ %s: %v", key, err)
			continue
		}
		transcripts = append(transcripts, t)
	}
	return transcripts, nil
}

// RenderCSV сериализует транскрипты в CSV
func (s *ExportService) RenderCSV(transcripts []entity.AnswerTranscript) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"user_id", "company_id", "quiz_id", "question_id", "user_answer", "is_correct"}); err != nil {
		return nil, err
	}
	for _, t := range transcripts {
		record := []string{
			strconv.FormatUint(uint64(t.UserID), 10),
			strconv.FormatUint(uint64(t.CompanyID), 10),
			strconv.FormatUint(uint64(t.QuizID), 10),
			strconv.FormatUint(uint64(t.QuestionID), 10),
			sanitizeForExcel(t.UserAnswer),
			strconv.FormatBool(t.IsCorrect),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RenderXLSX сериализует транскрипты в книгу Excel через StreamWriter
func (s *ExportService) RenderXLSX(transcripts []entity.AnswerTranscript) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Answers"
	f.SetSheetName("Sheet1", sheetName)

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create stream writer: %w", err)
	}

	headers := []interface{}{"user_id", "company_id", "quiz_id", "question_id", "user_answer", "is_correct"}
	if err := sw.SetRow("A1", headers); err != nil {
		return nil, err
	}

	for i, t := range transcripts {
		cell := fmt.Sprintf("A%d", i+2)
		row := []interface{}{t.UserID, t.CompanyID, t.QuizID, t.QuestionID, sanitizeForExcel(t.UserAnswer), t.IsCorrect}
		if err := sw.SetRow(cell, row); err != nil {
			return nil, err
		}
	}

	if err := sw.Flush(); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// sanitizeForExcel экранирует данные для защиты от formula injection в Excel/CSV
func sanitizeForExcel(s string) string {
	if len(s) == 0 {
		return s
	}
	// Символы, начинающие формулу в Excel/LibreOffice: = + - @ \t \r
	if s[0] == '=' || s[0] == '+' || s[0] == '-' || s[0] == '@' || s[0] == '\t' || s[0] == '\r' {
		return "'" + s
	}
	return s
}
