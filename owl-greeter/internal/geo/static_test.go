package geo

import (
	"context"
	"testing"

	"owl-care/owl-greeter/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticService_ByIP(t *testing.T) {
	s := NewStaticService()
	ctx := context.Background()

	tests := []struct {
		name string
		ip   string
		want *entity.Location
	}{
		{"localhost has no country", LocalhostIP, &entity.Location{}},
		{"moscow exact", MoscowIP, &entity.Location{City: "Moscow", Country: entity.Russia, Street: "Lenina", Building: 15}},
		{"new york exact", NewYorkIP, &entity.Location{City: "New York", Country: entity.USA, Street: " 10th Avenue", Building: 32}},
		{"moscow prefix", "172.16.0.1", &entity.Location{City: "Moscow", Country: entity.Russia}},
		{"new york prefix", "96.1.2.3", &entity.Location{City: "New York", Country: entity.USA}},
		{"unknown", "10.0.0.1", nil},
		{"empty", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.ByIP(ctx, tt.ip)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}
