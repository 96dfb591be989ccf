package models

// Patch to częściowa aktualizacja książki.
// Ta sama wartość jest wysyłana do bazy (Fields) i nakładana lokalnie (Apply),
// więc lista w pamięci zgadza się z bazą bez ponownego pobierania.
// ID oraz Description nie podlegają zmianie.
type Patch struct {
	Title         *string
	Authors       *Authors
	PublishedDate *string
	Pages         *Count
	SmCover       *string
	LgCover       *string
	Genre         *string
	Format        *string
	Status        *Status
	Read          *ReadState
	Loaned        *LoanFlag
	Note          *string
	Review        *string
	Stars         *Count
	DateStarted   *string
	DateFinished  *string
}

// IsEmpty sprawdza czy patch nic nie zmienia
func (p Patch) IsEmpty() bool {
	return len(p.Fields()) == 0
}

// Fields zwraca pola najwyższego poziomu w postaci zapisywanej w bazie
func (p Patch) Fields() map[string]interface{} {
	fields := make(map[string]interface{})

	if p.Title != nil {
		fields["title"] = *p.Title
	}
	if p.Authors != nil {
		fields["authors"] = []string(append(Authors{}, (*p.Authors)...))
	}
	if p.PublishedDate != nil {
		fields["publishedDate"] = *p.PublishedDate
	}
	if p.Pages != nil {
		fields["pages"] = int(*p.Pages)
	}
	if p.SmCover != nil {
		fields["smCover"] = *p.SmCover
	}
	if p.LgCover != nil {
		fields["lgCover"] = *p.LgCover
	}
	if p.Genre != nil {
		fields["genre"] = *p.Genre
	}
	if p.Format != nil {
		fields["format"] = *p.Format
	}
	if p.Status != nil {
		fields["status"] = string(*p.Status)
	}
	if p.Read != nil {
		fields["read"] = string(*p.Read)
	}
	if p.Loaned != nil {
		fields["loaned"] = string(*p.Loaned)
	}
	if p.Note != nil {
		fields["note"] = *p.Note
	}
	if p.Review != nil {
		fields["review"] = *p.Review
	}
	if p.Stars != nil {
		fields["stars"] = int(*p.Stars)
	}
	if p.DateStarted != nil {
		fields["dateStarted"] = *p.DateStarted
	}
	if p.DateFinished != nil {
		fields["dateFinished"] = *p.DateFinished
	}

	return fields
}

// Apply zwraca nową kopię książki z nałożonymi zmianami (płytkie scalenie)
func (p Patch) Apply(b *Book) *Book {
	out := b.Clone()

	if p.Title != nil {
		out.Title = *p.Title
	}
	if p.Authors != nil {
		out.Authors = append(Authors{}, (*p.Authors)...)
	}
	if p.PublishedDate != nil {
		out.PublishedDate = *p.PublishedDate
	}
	if p.Pages != nil {
		out.Pages = *p.Pages
	}
	if p.SmCover != nil {
		out.SmCover = *p.SmCover
	}
	if p.LgCover != nil {
		out.LgCover = *p.LgCover
	}
	if p.Genre != nil {
		out.Genre = *p.Genre
	}
	if p.Format != nil {
		out.Format = *p.Format
	}
	if p.Status != nil {
		out.Status = *p.Status
	}
	if p.Read != nil {
		out.Read = *p.Read
	}
	if p.Loaned != nil {
		out.Loaned = *p.Loaned
	}
	if p.Note != nil {
		out.Note = *p.Note
	}
	if p.Review != nil {
		out.Review = *p.Review
	}
	if p.Stars != nil {
		out.Stars = *p.Stars
	}
	if p.DateStarted != nil {
		out.DateStarted = *p.DateStarted
	}
	if p.DateFinished != nil {
		out.DateFinished = *p.DateFinished
	}

	return out
}
