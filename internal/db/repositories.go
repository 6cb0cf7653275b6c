package db

import "gorm.io/gorm"

type Repositories struct {
	Users       *UserRepository
	Routines    *RoutineRepository
	Occurrences *OccurrenceRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Users:       NewUserRepository(database),
		Routines:    NewRoutineRepository(database),
		Occurrences: NewOccurrenceRepository(database),
	}
}
