package field

// Source decides who owns a field's displayed value. It is implemented only by
// *Uncontrolled and Controlled.
type Source interface {
	current() string
	commit(masked string)
}

// Uncontrolled keeps the value inside the field. Each input replaces it with
// the newly masked value.
type Uncontrolled struct {
	value string
}

// NewUncontrolled returns an uncontrolled source seeded with an initial raw
// value. The seed is masked on first read.
func NewUncontrolled(initial string) *Uncontrolled {
	return &Uncontrolled{value: initial}
}

func (u *Uncontrolled) current() string { return u.value }

func (u *Uncontrolled) commit(masked string) { u.value = masked }

// Controlled reads the value from an external owner. The field never writes
// it; owners update their value from an OnChange listener.
type Controlled struct {
	Value func() string
}

func (c Controlled) current() string {
	if c.Value == nil {
		return ""
	}
	return c.Value()
}

func (Controlled) commit(string) {}
