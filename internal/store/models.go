package store

// Record is a catalog entry. ID is assigned by the store on first save and
// never changes afterwards.
type Record struct {
	ID          string   `json:"id"`
	Name        string   `json:"name" validate:"required"`
	Year        int      `json:"year" validate:"required,gt=0"`
	Cast        []string `json:"cast" validate:"dive,required"`
	ReleaseDate string   `json:"release_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// Clone returns a deep copy so callers never share the Cast slice with the store.
func (r Record) Clone() Record {
	if r.Cast != nil {
		cast := make([]string, len(r.Cast))
		copy(cast, r.Cast)
		r.Cast = cast
	}
	return r
}
