package sender

import (
	"context"
	"testing"

	"owl-care/owl-greeter/internal/entity"
	"owl-care/owl-greeter/internal/geo"
	"owl-care/owl-greeter/internal/i18n"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type MockGeoService struct {
	mock.Mock
}

func (m *MockGeoService) ByIP(ctx context.Context, ip string) *entity.Location {
	args := m.Called(ctx, ip)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*entity.Location)
}

type MockLocalizationService struct {
	mock.Mock
}

func (m *MockLocalizationService) Locale(country entity.Country) string {
	args := m.Called(country)
	return args.String(0)
}

func TestSend_RussianIP(t *testing.T) {
	geoMock := new(MockGeoService)
	geoMock.On("ByIP", mock.Anything, "172.0.32.11").
		Return(&entity.Location{City: "Moscow", Country: entity.Russia, Street: "Lenina", Building: 15})
	i18nMock := new(MockLocalizationService)
	i18nMock.On("Locale", entity.Russia).Return("Добро пожаловать")

	s := NewMessageSender(geoMock, i18nMock, zap.NewNop())
	got := s.Send(context.Background(), map[string]string{IPAddressHeader: "172.0.32.11"})

	assert.Equal(t, "Добро пожаловать", got)
	geoMock.AssertExpectations(t)
	i18nMock.AssertExpectations(t)
}

func TestSend_AmericanIP(t *testing.T) {
	geoMock := new(MockGeoService)
	geoMock.On("ByIP", mock.Anything, "96.44.183.149").
		Return(&entity.Location{City: "New York", Country: entity.USA})
	i18nMock := new(MockLocalizationService)
	i18nMock.On("Locale", entity.USA).Return("Welcome")

	s := NewMessageSender(geoMock, i18nMock, zap.NewNop())

	assert.Equal(t, "Welcome", s.Send(context.Background(), map[string]string{IPAddressHeader: "96.44.183.149"}))
	i18nMock.AssertExpectations(t)
}

func TestSend_MappedCountryGreetingIsReturnedAsIs(t *testing.T) {
	geoMock := new(MockGeoService)
	geoMock.On("ByIP", mock.Anything, "85.1.1.1").Return(&entity.Location{Country: entity.Germany})
	i18nMock := new(MockLocalizationService)
	i18nMock.On("Locale", entity.Germany).Return("Willkommen")

	s := NewMessageSender(geoMock, i18nMock, zap.NewNop())

	assert.Equal(t, "Willkommen", s.Send(context.Background(), map[string]string{IPAddressHeader: "85.1.1.1"}))
}

func TestSend_AbsentAddressFallsBackWithoutLookup(t *testing.T) {
	headers := []map[string]string{
		nil,
		{},
		{"X-Real-IP": "172.0.32.11"},
		{IPAddressHeader: ""},
		{IPAddressHeader: "null"},
	}
	for _, h := range headers {
		geoMock := new(MockGeoService)
		i18nMock := new(MockLocalizationService)
		i18nMock.On("Locale", entity.USA).Return("Welcome")

		s := NewMessageSender(geoMock, i18nMock, zap.NewNop())

		assert.Equal(t, "Welcome", s.Send(context.Background(), h))
		geoMock.AssertNotCalled(t, "ByIP", mock.Anything, mock.Anything)
		i18nMock.AssertExpectations(t)
	}
}

func TestSend_UnresolvedLocationFallsBack(t *testing.T) {
	geoMock := new(MockGeoService)
	geoMock.On("ByIP", mock.Anything, "10.0.0.1").Return(nil)
	geoMock.On("ByIP", mock.Anything, "127.0.0.1").Return(&entity.Location{})
	i18nMock := new(MockLocalizationService)
	i18nMock.On("Locale", entity.USA).Return("Welcome")

	s := NewMessageSender(geoMock, i18nMock, zap.NewNop())

	assert.Equal(t, "Welcome", s.Send(context.Background(), map[string]string{IPAddressHeader: "10.0.0.1"}))
	assert.Equal(t, "Welcome", s.Send(context.Background(), map[string]string{IPAddressHeader: "127.0.0.1"}))
	i18nMock.AssertNumberOfCalls(t, "Locale", 2)
	geoMock.AssertExpectations(t)
}

func TestSend_WithStaticServices(t *testing.T) {
	s := NewMessageSender(geo.NewStaticService(), i18n.NewStaticService(), zap.NewNop())
	ctx := context.Background()

	assert.Equal(t, i18n.GreetingRussian, s.Send(ctx, map[string]string{IPAddressHeader: geo.MoscowIP}))
	assert.Equal(t, i18n.GreetingRussian, s.Send(ctx, map[string]string{IPAddressHeader: "172.1.2.3"}))
	assert.Equal(t, i18n.GreetingDefault, s.Send(ctx, map[string]string{IPAddressHeader: geo.NewYorkIP}))
	assert.Equal(t, i18n.GreetingDefault, s.Send(ctx, map[string]string{IPAddressHeader: geo.LocalhostIP}))
	assert.Equal(t, i18n.GreetingDefault, s.Send(ctx, map[string]string{IPAddressHeader: "8.8.8.8"}))
}
