package calendar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNameTables(t *testing.T) {
	assert.Equal(t, "January", GregorianMonthNames()[0])
	assert.Equal(t, "Muharram", HijriMonthNames()[0])
	assert.Equal(t, "Thu al-Hijjah", HijriMonthNames()[11])
	assert.Equal(t, "Qi`dah", HijriMonthShortNames()[10])
	assert.Equal(t, "Yaum al-Ahad", WeekdayNames()[0])
	assert.Equal(t, "Sab", WeekdayShortNames()[6])
}

func TestNameTables_ReturnCopies(t *testing.T) {
	names := HijriMonthNames()
	names[0] = "changed"
	assert.Equal(t, "Muharram", HijriMonthNames()[0])

	days := WeekdayNames()
	days[5] = "changed"
	assert.Equal(t, "Yaum al-Jumma", WeekdayName(5))
}

func TestNameLookups(t *testing.T) {
	assert.Equal(t, "March", MonthName(3))
	assert.Equal(t, "Ramadan", HijriMonthName(9))
	assert.Equal(t, "Yaum al-Jumma", WeekdayName(5))
	assert.Equal(t, "Friday", WeekdayEnglishName(5))

	for _, bad := range []int{-1, 0, 13} {
		assert.Empty(t, MonthName(bad))
		assert.Empty(t, HijriMonthName(bad))
	}
	assert.Empty(t, WeekdayName(7))
	assert.Empty(t, WeekdayEnglishName(-1))
}
