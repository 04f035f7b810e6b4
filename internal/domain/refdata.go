package domain

type Country struct {
	Code string
	Name string
}

type Airline struct {
	ID   int64
	Code string
	Name string
}
