package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 15, 30, 0, 0, time.UTC)
}

func TestNewRecord(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		r, err := NewRecord("Ann", "1990-05-17")
		require.NoError(t, err)
		assert.Equal(t, "Ann", r.Name)
		assert.Equal(t, Birthday{Year: 1990, Month: time.May, Day: 17}, r.Birthday)
		assert.Empty(t, r.Phones)
	})

	t.Run("NoBirthday", func(t *testing.T) {
		r, err := NewRecord("Ann", "")
		require.NoError(t, err)
		assert.True(t, r.Birthday.IsZero())
		assert.Equal(t, "", r.Birthday.String())
	})

	t.Run("EmptyName", func(t *testing.T) {
		r, err := NewRecord("", "")
		require.ErrorIs(t, err, ErrValidation)
		assert.Nil(t, r)
	})

	t.Run("InvalidUTF8Name", func(t *testing.T) {
		r, err := NewRecord("Ann\xff", "0999-01-01")
		require.ErrorIs(t, err, ErrValidation)
		assert.Nil(t, r)
	})

	t.Run("UnicodeName", func(t *testing.T) {
		r, err := NewRecord("Анна", "")
		require.NoError(t, err)
		assert.Equal(t, "Анна", r.Name)
	})

	for _, bad := range []string{"17.05.1990", "1990-13-01", "1990-02-30", "tomorrow"} {
		t.Run("BadBirthday_"+bad, func(t *testing.T) {
			_, err := NewRecord("Ann", bad)
			require.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestRecord_AddPhone(t *testing.T) {
	t.Run("ThenFind", func(t *testing.T) {
		r, err := NewRecord("Ann", "")
		require.NoError(t, err)
		for i, p := range []string{"1234567890", "0987654321", "5551234567"} {
			require.NoError(t, r.AddPhone(p))
			assert.Equal(t, i, r.FindPhone(p))
		}
	})

	t.Run("DuplicatesAllowed", func(t *testing.T) {
		r := &Record{Name: "Ann"}
		require.NoError(t, r.AddPhone("1234567890"))
		require.NoError(t, r.AddPhone("1234567890"))
		assert.Len(t, r.Phones, 2)
		assert.Equal(t, 0, r.FindPhone("1234567890"))
	})

	for _, bad := range []string{"", "123456789", "12345678901", "12345abcde", "123 456 78", "１２３４５６７８９０"} {
		t.Run("Invalid_"+bad, func(t *testing.T) {
			r := &Record{Name: "Ann", Phones: []string{"1234567890"}}
			err := r.AddPhone(bad)
			require.ErrorIs(t, err, ErrValidation)
			assert.Equal(t, []string{"1234567890"}, r.Phones)
		})
	}
}

func TestRecord_EditPhone(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		r := &Record{Name: "Ann", Phones: []string{"1234567890", "5551234567"}}
		require.NoError(t, r.EditPhone(1, "0987654321"))
		assert.Equal(t, []string{"1234567890", "0987654321"}, r.Phones)
	})

	t.Run("OutOfRange", func(t *testing.T) {
		r := &Record{Name: "Ann", Phones: []string{"1234567890"}}
		for _, i := range []int{-1, 1, 5} {
			err := r.EditPhone(i, "0987654321")
			require.ErrorIs(t, err, ErrIndexOutOfRange)
		}
		assert.Equal(t, []string{"1234567890"}, r.Phones)
	})

	t.Run("Invalid", func(t *testing.T) {
		r := &Record{Name: "Ann", Phones: []string{"1234567890"}}
		err := r.EditPhone(0, "12")
		require.ErrorIs(t, err, ErrValidation)
		assert.Equal(t, []string{"1234567890"}, r.Phones)
	})
}

func TestRecord_RemovePhone(t *testing.T) {
	r := &Record{Name: "Ann", Phones: []string{"1234567890", "5551234567", "0987654321"}}
	require.NoError(t, r.RemovePhone(1))
	assert.Equal(t, []string{"1234567890", "0987654321"}, r.Phones)

	err := r.RemovePhone(2)
	require.ErrorIs(t, err, ErrIndexOutOfRange)
	assert.Len(t, r.Phones, 2)
}

func TestRecord_FindPhone_NotFound(t *testing.T) {
	r := &Record{Name: "Ann", Phones: []string{"1234567890"}}
	assert.Equal(t, -1, r.FindPhone("0987654321"))
}

func TestRecord_DaysUntilBirthday(t *testing.T) {
	tests := []struct {
		name     string
		birthday string
		today    time.Time
		want     int
	}{
		{"Today", "1990-03-10", date(2024, time.March, 10), 0},
		{"Tomorrow", "1990-03-11", date(2024, time.March, 10), 1},
		{"JustPassedBeforeLeapDay", "1990-03-09", date(2024, time.March, 10), 364},
		{"JustPassedAcrossLeapDay", "1990-03-09", date(2023, time.March, 10), 365},
		{"LeapDayInCommonYear", "2000-02-29", date(2025, time.February, 28), 1},
		{"LeapDayInLeapYear", "2000-02-29", date(2024, time.February, 28), 1},
		{"NextYear", "1990-01-01", date(2024, time.December, 31), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewRecord("Ann", tt.birthday)
			require.NoError(t, err)
			days, ok := r.DaysUntilBirthday(tt.today)
			require.True(t, ok)
			assert.Equal(t, tt.want, days)
		})
	}

	t.Run("Unknown", func(t *testing.T) {
		r, err := NewRecord("Ann", "")
		require.NoError(t, err)
		_, ok := r.DaysUntilBirthday(date(2024, time.March, 10))
		assert.False(t, ok)
	})
}

func TestRecord_Validate(t *testing.T) {
	assert.NoError(t, (&Record{Name: "Ann", Phones: []string{"1234567890"}}).Validate())
	assert.ErrorIs(t, (&Record{}).Validate(), ErrValidation)
	assert.ErrorIs(t, (&Record{Name: "Ann\xff"}).Validate(), ErrValidation)
	assert.ErrorIs(t, (&Record{Name: "Ann", Phones: []string{"12"}}).Validate(), ErrValidation)
	assert.ErrorIs(t, (&Record{Name: "Ann", Birthday: Birthday{Year: 2001, Month: time.February, Day: 29}}).Validate(), ErrValidation)
}

func TestRecord_Clone(t *testing.T) {
	r := &Record{Name: "Ann", Phones: []string{"1234567890"}}
	c := r.Clone()
	c.Phones[0] = "0987654321"
	assert.Equal(t, "1234567890", r.Phones[0])
}
