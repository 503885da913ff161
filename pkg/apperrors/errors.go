package apperrors

import "errors"

var (
	ErrNoBackupDate  = errors.New("no backup date available")
	ErrChartRejected = errors.New("chart service rejected submission")
)
