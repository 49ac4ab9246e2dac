package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustRecord(t *testing.T, name, birthday string, phones ...string) *Record {
	t.Helper()
	r, err := NewRecord(name, birthday)
	require.NoError(t, err)
	for _, p := range phones {
		require.NoError(t, r.AddPhone(p))
	}
	return r
}

func names(rs []*Record) []string {
	out := make([]string, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.Name)
	}
	return out
}

func TestDirectory_AddAndGet(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		d, err := NewDirectory()
		require.NoError(t, err)
		require.NoError(t, d.Add(mustRecord(t, "Ann", "", "1234567890")))

		got, err := d.Get("Ann")
		require.NoError(t, err)
		assert.Equal(t, []string{"1234567890"}, got.Phones)
	})

	t.Run("NotFound", func(t *testing.T) {
		d, err := NewDirectory()
		require.NoError(t, err)
		got, err := d.Get("Bob")
		require.ErrorIs(t, err, ErrNotFound)
		assert.Nil(t, got)
	})

	t.Run("OverwriteKeepsPosition", func(t *testing.T) {
		d, err := NewDirectory(mustRecord(t, "Ann", ""), mustRecord(t, "Bob", ""), mustRecord(t, "Cid", ""))
		require.NoError(t, err)
		require.NoError(t, d.Add(mustRecord(t, "Bob", "", "5551234567")))

		assert.Equal(t, []string{"Ann", "Bob", "Cid"}, names(d.Records()))
		got, err := d.Get("Bob")
		require.NoError(t, err)
		assert.Equal(t, []string{"5551234567"}, got.Phones)
	})

	t.Run("RejectsInvalid", func(t *testing.T) {
		var d Directory
		require.ErrorIs(t, d.Add(&Record{Name: "Ann", Phones: []string{"12"}}), ErrValidation)
		require.ErrorIs(t, d.Add(nil), ErrValidation)
		assert.Zero(t, d.Len())
	})

	t.Run("NoAliasing", func(t *testing.T) {
		r := mustRecord(t, "Ann", "", "1234567890")
		d, err := NewDirectory(r)
		require.NoError(t, err)
		r.Phones[0] = "0000000000"

		got, err := d.Get("Ann")
		require.NoError(t, err)
		got.Phones[0] = "1111111111"

		again, err := d.Get("Ann")
		require.NoError(t, err)
		assert.Equal(t, []string{"1234567890"}, again.Phones)
	})
}

func TestDirectory_Update(t *testing.T) {
	d, err := NewDirectory(mustRecord(t, "Ann", "", "1234567890"))
	require.NoError(t, err)

	t.Run("Success", func(t *testing.T) {
		err := d.Update("Ann", func(r *Record) error { return r.AddPhone("5551234567") })
		require.NoError(t, err)
		got, _ := d.Get("Ann")
		assert.Equal(t, []string{"1234567890", "5551234567"}, got.Phones)
	})

	t.Run("FailureLeavesRecordUnchanged", func(t *testing.T) {
		err := d.Update("Ann", func(r *Record) error {
			r.Phones = nil
			return errors.New("boom")
		})
		require.EqualError(t, err, "boom")
		got, _ := d.Get("Ann")
		assert.Len(t, got.Phones, 2)
	})

	t.Run("EditOutOfRange", func(t *testing.T) {
		err := d.Update("Ann", func(r *Record) error { return r.EditPhone(7, "0987654321") })
		require.ErrorIs(t, err, ErrIndexOutOfRange)
	})

	t.Run("RenameRejected", func(t *testing.T) {
		err := d.Update("Ann", func(r *Record) error { r.Name = "Anna"; return nil })
		require.ErrorIs(t, err, ErrValidation)
		_, err = d.Get("Ann")
		require.NoError(t, err)
	})

	t.Run("NotFound", func(t *testing.T) {
		err := d.Update("Bob", func(*Record) error { return nil })
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestDirectory_Delete(t *testing.T) {
	d, err := NewDirectory(mustRecord(t, "Ann", ""), mustRecord(t, "Bob", ""), mustRecord(t, "Cid", ""))
	require.NoError(t, err)

	require.NoError(t, d.Delete("Ann"))
	assert.Equal(t, []string{"Bob", "Cid"}, names(d.Records()))

	got, err := d.Get("Cid")
	require.NoError(t, err)
	assert.Equal(t, "Cid", got.Name)

	require.ErrorIs(t, d.Delete("Ann"), ErrNotFound)
}

func TestDirectory_ReplaceAndReset(t *testing.T) {
	d, err := NewDirectory(mustRecord(t, "Ann", ""))
	require.NoError(t, err)

	require.NoError(t, d.Replace([]*Record{mustRecord(t, "Bob", ""), mustRecord(t, "Cid", "")}))
	assert.Equal(t, []string{"Bob", "Cid"}, names(d.Records()))

	err = d.Replace([]*Record{mustRecord(t, "Dan", ""), {Name: ""}})
	require.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, []string{"Bob", "Cid"}, names(d.Records()))

	d.Reset()
	assert.Zero(t, d.Len())
	require.NoError(t, d.Add(mustRecord(t, "Eve", "")))
	assert.Equal(t, 1, d.Len())
}

func TestDirectory_SearchByFields(t *testing.T) {
	d, err := NewDirectory(
		mustRecord(t, "Ann", "1990-05-17", "1234567890"),
		mustRecord(t, "Bob", "1985-01-02"),
		mustRecord(t, "Cid", "1990-05-17"),
	)
	require.NoError(t, err)

	tests := []struct {
		name     string
		criteria map[Field]string
		want     []string
	}{
		{"Empty", nil, []string{"Ann", "Bob", "Cid"}},
		{"ByName", map[Field]string{FieldName: "Bob"}, []string{"Bob"}},
		{"ByNameCaseSensitive", map[Field]string{FieldName: "bob"}, []string{}},
		{"ByBirthday", map[Field]string{FieldBirthday: "1990-05-17"}, []string{"Ann", "Cid"}},
		{"Both", map[Field]string{FieldName: "Cid", FieldBirthday: "1990-05-17"}, []string{"Cid"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := d.SearchByFields(tt.criteria)
			require.NoError(t, err)
			assert.Equal(t, tt.want, names(got))
		})
	}

	t.Run("UnknownField", func(t *testing.T) {
		_, err := d.SearchByFields(map[Field]string{Field(42): "x"})
		require.ErrorIs(t, err, ErrValidation)
	})
}

func TestParseField(t *testing.T) {
	f, err := ParseField("Name")
	require.NoError(t, err)
	assert.Equal(t, FieldName, f)

	f, err = ParseField("birthday")
	require.NoError(t, err)
	assert.Equal(t, FieldBirthday, f)

	_, err = ParseField("phones")
	require.ErrorIs(t, err, ErrValidation)
}

func TestDirectory_Search(t *testing.T) {
	d, err := NewDirectory(
		mustRecord(t, "Ann", "", "5551234567"),
		mustRecord(t, "Bob", "", "1234567890"),
		mustRecord(t, "Joanna", ""),
	)
	require.NoError(t, err)

	assert.Equal(t, []string{"Ann"}, names(d.Search("555")))
	assert.Equal(t, []string{"Ann", "Joanna"}, names(d.Search("ANN")))
	assert.Equal(t, []string{"Ann", "Bob"}, names(d.Search("234")))
	assert.Empty(t, d.Search("zzz"))
	assert.Len(t, d.Search(""), 3)
}

func TestDirectory_Pages(t *testing.T) {
	var rs []*Record
	for i := 0; i < 7; i++ {
		rs = append(rs, mustRecord(t, fmt.Sprintf("c%d", i), ""))
	}
	d, err := NewDirectory(rs...)
	require.NoError(t, err)

	p, err := d.Pages(3)
	require.NoError(t, err)
	assert.Equal(t, 3, p.Total())

	var sizes []int
	var seen []string
	for p.Next() {
		assert.Equal(t, len(sizes)+1, p.Number())
		sizes = append(sizes, len(p.Page()))
		seen = append(seen, names(p.Page())...)
	}
	assert.Equal(t, []int{3, 3, 1}, sizes)
	assert.Equal(t, names(rs), seen)

	assert.False(t, p.Next(), "pager must not restart")
	assert.Nil(t, p.Page())

	t.Run("Empty", func(t *testing.T) {
		empty, err := NewDirectory()
		require.NoError(t, err)
		p, err := empty.Pages(5)
		require.NoError(t, err)
		assert.False(t, p.Next())
		assert.Zero(t, p.Total())
	})

	t.Run("InvalidSize", func(t *testing.T) {
		for _, size := range []int{0, -1} {
			p, err := d.Pages(size)
			require.ErrorIs(t, err, ErrValidation)
			assert.Nil(t, p)
		}
	})
}
