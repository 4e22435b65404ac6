package model

// Program is a broadcast show that needs staffing for a given day.
type Program struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Caster is an on-air presenter assignable to a program.
type Caster struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Forecaster is a weather specialist assignable to a program.
type Forecaster struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Catalogs groups the three reference lists loaded once per session.
type Catalogs struct {
	Programs    []Program    `json:"programs"`
	Casters     []Caster     `json:"casters"`
	Forecasters []Forecaster `json:"forecasters"`
}

// Empty reports whether no program is known. Rows cannot be rendered without programs.
func (c Catalogs) Empty() bool { return len(c.Programs) == 0 }
