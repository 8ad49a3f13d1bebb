package repository

import (
	"iflytek-asr/internal/app/model"
	"time"
)

type TranscriptionDAO interface {
	Close() error

	GetAllByUser(userNickname string) ([]model.Transcription, error)

	GetRecent(limit int) ([]model.Transcription, error)

	GetByID(id int) (*model.Transcription, error)

	CheckIfFileProcessed(fileName string) (int, error)

	RecordToDB(user, inputDir, fileName, provider, orderID string, audioDuration int,
		transcription string, lastConversionTime time.Time, hasError int, errorMessage string) error
}
