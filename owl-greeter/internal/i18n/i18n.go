package i18n

import "owl-care/owl-greeter/internal/entity"

const (
	GreetingRussian = "Добро пожаловать"
	GreetingDefault = "Welcome"
)

// Service maps a country to its greeting
type Service interface {
	Locale(country entity.Country) string
}

// StaticService only Russia has its own greeting
type StaticService struct{}

// NewStaticService creates the built-in greeting table
func NewStaticService() *StaticService {
	return &StaticService{}
}

// Locale greeting for country, Welcome for anything without an entry
func (s *StaticService) Locale(country entity.Country) string {
	if country == entity.Russia {
		return GreetingRussian
	}
	return GreetingDefault
}
