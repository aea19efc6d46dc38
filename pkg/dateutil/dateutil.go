package dateutil

import (
	"time"
)

// Age calculates the age at a given date
func Age(birthDate, atDate time.Time) int {
	age := atDate.Year() - birthDate.Year()
	if atDate.Month() < birthDate.Month() ||
		(atDate.Month() == birthDate.Month() && atDate.Day() < birthDate.Day()) {
		age--
	}
	return age
}

// IntervalsBetweenAges returns the number of simulation intervals spanned
// by an age range at the given granularity (intervals per year). A range
// that is empty or inverted yields zero.
func IntervalsBetweenAges(startAge, endAge, intervalsPerYear int) int {
	if endAge <= startAge || intervalsPerYear <= 0 {
		return 0
	}
	return (endAge - startAge) * intervalsPerYear
}

// IntervalForAge returns the first interval index at which the plan
// holder has the given age. Ages at or before the start age map to
// interval 0.
func IntervalForAge(age, startAge, intervalsPerYear int) int {
	if age <= startAge {
		return 0
	}
	if intervalsPerYear <= 0 {
		intervalsPerYear = 1
	}
	return (age - startAge) * intervalsPerYear
}

// AgeAtInterval returns the plan holder's age during the given interval.
func AgeAtInterval(interval, startAge, intervalsPerYear int) int {
	if intervalsPerYear <= 0 {
		intervalsPerYear = 1
	}
	return startAge + interval/intervalsPerYear
}
