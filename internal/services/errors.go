package services

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrRoutineNotFound    = errors.New("routine not found")
	ErrOccurrenceNotFound = errors.New("occurrence not found")
	ErrInvalidSchedule    = errors.New("invalid schedule")
	ErrInvalidRoutineName = errors.New("invalid routine name")
	ErrAssigneeNotMember  = errors.New("assignee is not a member of the couple")
)

var (
	ErrRoutineLoadFailed      = errors.New("load routine failed")
	ErrRoutineCreateFailed    = errors.New("create routine failed")
	ErrRoutineUpdateFailed    = errors.New("update routine failed")
	ErrRoutineDeleteFailed    = errors.New("delete routine failed")
	ErrOccurrenceLoadFailed   = errors.New("load occurrences failed")
	ErrOccurrenceUpdateFailed = errors.New("update occurrence failed")
	ErrMaterializeFailed      = errors.New("materialize occurrences failed")
	ErrMemberLookupFailed     = errors.New("member lookup failed")
)

func isRecordNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
