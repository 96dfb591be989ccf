package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBook_UnmarshalLegacyShapes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		check func(t *testing.T, b Book)
	}{
		{
			name:  "authors_as_comma_string",
			input: `{"title":"Dune","authors":"Frank Herbert, , Brian Herbert "}`,
			check: func(t *testing.T, b Book) {
				assert.Equal(t, Authors{"Frank Herbert", "Brian Herbert"}, b.Authors)
			},
		},
		{
			name:  "authors_missing",
			input: `{"title":"Dune"}`,
			check: func(t *testing.T, b Book) {
				b.Defaults()
				assert.NotNil(t, b.Authors)
				assert.Empty(t, b.Authors)
			},
		},
		{
			name:  "authors_null",
			input: `{"authors":null}`,
			check: func(t *testing.T, b Book) {
				assert.Equal(t, Authors{}, b.Authors)
			},
		},
		{
			name:  "pages_and_stars_as_strings",
			input: `{"pages":"412","stars":"4"}`,
			check: func(t *testing.T, b Book) {
				assert.Equal(t, Count(412), b.Pages)
				assert.Equal(t, Count(4), b.Stars)
			},
		},
		{
			name:  "empty_page_string",
			input: `{"pages":""}`,
			check: func(t *testing.T, b Book) {
				assert.Equal(t, Count(0), b.Pages)
			},
		},
		{
			name:  "legacy_status_values",
			input: `{"status":"in progress","read":"y","loaned":"y"}`,
			check: func(t *testing.T, b Book) {
				assert.Equal(t, StatusInProgress, b.Status)
				assert.True(t, b.IsRead())
				assert.True(t, b.IsLoaned())
			},
		},
		{
			name:  "unknown_status_is_none",
			input: `{"status":"loaned"}`,
			check: func(t *testing.T, b Book) {
				assert.Equal(t, StatusNone, b.Status)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b Book
			require.NoError(t, json.Unmarshal([]byte(tt.input), &b))
			tt.check(t, b)
		})
	}
}

func TestLookupStatus(t *testing.T) {
	tests := []struct {
		in   string
		want Status
		ok   bool
	}{
		{"none", StatusNone, true},
		{" Wish ", StatusWish, true},
		{"to be read", StatusTBR, true},
		{"in-progress", StatusInProgress, true},
		{"loaned", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := LookupStatus(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	// Odczyt z bazy pozostaje tolerancyjny
	assert.Equal(t, StatusNone, ParseStatus("loaned"))
}

func TestCount_RejectsGarbage(t *testing.T) {
	var c Count
	assert.Error(t, json.Unmarshal([]byte(`"abc"`), &c))
}

func TestBook_MarshalOmitsEmptyID(t *testing.T) {
	data, err := json.Marshal(Book{Title: "Dune", Authors: Authors{}})
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"id"`)
	assert.Contains(t, string(data), `"authors":[]`)
}

func TestLoanLog_RoundTrip(t *testing.T) {
	note := "Loaned to Alex (2026-01-02)\nReturned (2026-01-09)\nsigned copy\nLoaned to Sam Lee (2026-02-01)"

	log := ParseLoanLog(note)
	require.Len(t, log, 4)
	assert.Equal(t, LoanEventLoaned, log[0].Kind)
	assert.Equal(t, "Alex", log[0].Borrower)
	assert.Equal(t, LoanEventReturned, log[1].Kind)
	assert.Equal(t, LoanEventText, log[2].Kind)
	assert.Equal(t, note, log.String())

	borrower, open := log.OpenLoan()
	assert.True(t, open)
	assert.Equal(t, "Sam Lee", borrower)
}

func TestLoanLog_OpenLoanIgnoresTrailingText(t *testing.T) {
	log := ParseLoanLog("Loaned to Alex (2026-01-02)\nReturned (2026-01-03)\nsome remark")
	_, open := log.OpenLoan()
	assert.False(t, open)

	log = ParseLoanLog("Loaned to Alex (2026-01-02)\nsome remark")
	borrower, open := log.OpenLoan()
	assert.True(t, open)
	assert.Equal(t, "Alex", borrower)
}

func TestLoanLog_AppendDoesNotMutate(t *testing.T) {
	log := ParseLoanLog("Loaned to Alex (2026-01-02)")
	next := log.Append(Returned("2026-01-05"))

	assert.Len(t, log, 1)
	assert.Equal(t, "Loaned to Alex (2026-01-02)\nReturned (2026-01-05)", next.String())
	assert.Nil(t, ParseLoanLog(""))
}

func TestPatch_FieldsMatchApply(t *testing.T) {
	read := ReadYes
	finished := "2026-10-19T10:00:00.000Z"
	authors := Authors{"Ursula K. Le Guin"}
	p := Patch{Read: &read, DateFinished: &finished, Authors: &authors}

	assert.Equal(t, map[string]interface{}{
		"read":         "y",
		"dateFinished": finished,
		"authors":      []string{"Ursula K. Le Guin"},
	}, p.Fields())

	orig := &Book{ID: "b1", Title: "Earthsea", Read: ReadNo, Description: "wizards"}
	got := p.Apply(orig)

	assert.Equal(t, ReadNo, orig.Read, "original must not change")
	assert.Equal(t, ReadYes, got.Read)
	assert.Equal(t, finished, got.DateFinished)
	assert.Equal(t, Authors{"Ursula K. Le Guin"}, got.Authors)
	assert.Equal(t, "b1", got.ID)
	assert.Equal(t, "wizards", got.Description)
}

func TestPatch_IsEmpty(t *testing.T) {
	assert.True(t, Patch{}.IsEmpty())
	tbr := StatusTBR
	assert.False(t, Patch{Status: &tbr}.IsEmpty())
}

func TestUpcomingBook_Countdown(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		release time.Time
		days    int
		label   string
	}{
		{now.Add(72*time.Hour + time.Hour), 3, "3 days"},
		{now.Add(36 * time.Hour), 1, "1 day"},
		{now.Add(12 * time.Hour), 0, "Released!"},
		{now.Add(-48 * time.Hour), -2, "Released!"},
	}

	for _, tt := range tests {
		u := UpcomingBook{Title: "Next", ReleaseDate: tt.release}
		assert.Equal(t, tt.days, u.DaysRemaining(now))
		assert.Equal(t, tt.label, u.Countdown(now))
	}
}
