package testutil

import (
	"database/sql"
	"sync"
	"time"

	"iflytek-asr/internal/app/model"
	"iflytek-asr/internal/app/repository"
)

// RecordCall captures one RecordToDB invocation.
type RecordCall struct {
	User               string
	InputDir           string
	FileName           string
	Provider           string
	OrderID            string
	AudioDuration      int
	Transcription      string
	LastConversionTime time.Time
	HasError           int
	ErrorMessage       string
}

// MockTranscriptionDAO is an in-memory TranscriptionDAO for tests.
type MockTranscriptionDAO struct {
	mu sync.Mutex

	rows      []model.Transcription
	processed map[string]int
	nextID    int

	closeErr    error
	recordErr   error
	closeCalled bool
	records     []RecordCall
}

func NewMockTranscriptionDAO() *MockTranscriptionDAO {
	return &MockTranscriptionDAO{
		processed: make(map[string]int),
		nextID:    1,
	}
}

// WithProcessedFile marks fileName as already transcribed.
func (m *MockTranscriptionDAO) WithProcessedFile(fileName string, id int) *MockTranscriptionDAO {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.processed[fileName] = id
	return m
}

// WithCloseError makes Close return err.
func (m *MockTranscriptionDAO) WithCloseError(err error) *MockTranscriptionDAO {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closeErr = err
	return m
}

// WithRecordError makes RecordToDB return err.
func (m *MockTranscriptionDAO) WithRecordError(err error) *MockTranscriptionDAO {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recordErr = err
	return m
}

// WithTranscriptions seeds history rows for the query methods.
func (m *MockTranscriptionDAO) WithTranscriptions(rows ...model.Transcription) *MockTranscriptionDAO {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range rows {
		if row.ID == 0 {
			row.ID = m.nextID
			m.nextID++
		} else if row.ID >= m.nextID {
			m.nextID = row.ID + 1
		}
		m.rows = append(m.rows, row)
	}
	return m
}

func (m *MockTranscriptionDAO) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closeCalled = true
	return m.closeErr
}

func (m *MockTranscriptionDAO) GetAllByUser(userNickname string) ([]model.Transcription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var result []model.Transcription
	for _, row := range m.rows {
		if row.User == userNickname && row.HasError == 0 {
			result = append(result, row)
		}
	}
	return result, nil
}

func (m *MockTranscriptionDAO) GetRecent(limit int) ([]model.Transcription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]model.Transcription, 0, limit)
	for i := len(m.rows) - 1; i >= 0 && len(result) < limit; i-- {
		result = append(result, m.rows[i])
	}
	return result, nil
}

func (m *MockTranscriptionDAO) GetByID(id int) (*model.Transcription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, row := range m.rows {
		if row.ID == id {
			copied := row
			return &copied, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *MockTranscriptionDAO) CheckIfFileProcessed(fileName string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id, ok := m.processed[fileName]; ok {
		return id, nil
	}
	return 0, sql.ErrNoRows
}

func (m *MockTranscriptionDAO) RecordToDB(user, inputDir, fileName, providerName, orderID string, audioDuration int,
	transcription string, lastConversionTime time.Time, hasError int, errorMessage string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.recordErr != nil {
		return m.recordErr
	}

	m.records = append(m.records, RecordCall{
		User:               user,
		InputDir:           inputDir,
		FileName:           fileName,
		Provider:           providerName,
		OrderID:            orderID,
		AudioDuration:      audioDuration,
		Transcription:      transcription,
		LastConversionTime: lastConversionTime,
		HasError:           hasError,
		ErrorMessage:       errorMessage,
	})

	id := m.nextID
	m.nextID++
	m.rows = append(m.rows, model.Transcription{
		ID:                 id,
		User:               user,
		Provider:           providerName,
		OrderID:            orderID,
		FileName:           fileName,
		AudioDuration:      float64(audioDuration),
		Transcription:      transcription,
		LastConversionTime: lastConversionTime,
		HasError:           hasError,
		ErrorMessage:       errorMessage,
	})
	if hasError == 0 {
		m.processed[fileName] = id
	}
	return nil
}

// WasCloseCalled reports whether Close ran.
func (m *MockTranscriptionDAO) WasCloseCalled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closeCalled
}

// GetRecordCalls returns every RecordToDB invocation in order.
func (m *MockTranscriptionDAO) GetRecordCalls() []RecordCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	records := make([]RecordCall, len(m.records))
	copy(records, m.records)
	return records
}

var _ repository.TranscriptionDAO = (*MockTranscriptionDAO)(nil)
