package holiday

import (
	"time"

	"github.com/google/uuid"
)

type Type int

const (
	PersonalHoliday Type = 0
	BusinessHoliday Type = 1
)

func (t Type) String() string {
	if t == BusinessHoliday {
		return "business"
	}
	return "personal"
}

func ParseType(s string) (Type, bool) {
	switch s {
	case "business", "1":
		return BusinessHoliday, true
	case "personal", "0", "":
		return PersonalHoliday, true
	}
	return PersonalHoliday, false
}

// Day is a stored holiday record. Business holidays have no user.
type Day struct {
	Id uuid.UUID
	// Uuid is the id of the calendar event the record was imported from.
	Uuid     string
	Type     Type
	Name     string
	Date     time.Time
	UserId   *int
	Excused  bool
	Overtime bool
}
