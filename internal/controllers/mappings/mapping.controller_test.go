package mappingController

import (
	"context"
	"testing"

	. "sitelog/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestSuggestTarget(t *testing.T) {
	tests := []struct {
		name     string
		property string
		want     MappingTarget
		found    bool
	}{
		{"tekla assembly pos", "ASSEMBLY_POS", TargetAssemblyMark, true},
		{"cast unit pos", "CAST_UNIT_POS", TargetAssemblyMark, true},
		{"bare mark", "Mark", TargetAssemblyMark, true},
		{"ifc global id", "GlobalId", TargetObjectGUID, true},
		{"guid variant", "Object GUID", TargetObjectGUID, true},
		{"erection method", "Erection Method", TargetMethod, true},
		{"weight", "WEIGHT_TOTAL", TargetWeight, true},
		{"mass", "Net Mass", TargetWeight, true},
		{"profile", "PROFILE", TargetProfile, true},
		{"section name", "Section Name", TargetProfile, true},
		{"unrelated", "Fire Rating", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := suggestTarget(tt.property)
			assert.Equal(t, tt.found, found)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSuggestSkipsUnrecognized(t *testing.T) {
	controller := &MappingController{}

	request := &SuggestRequest{}
	request.Properties = []struct {
		PropertySet  string `json:"propertySet"`
		PropertyName string `json:"propertyName"`
	}{
		{PropertySet: "Tekla Assembly", PropertyName: "ASSEMBLY_POS"},
		{PropertySet: "Pset_Custom", PropertyName: "Fire Rating"},
		{PropertySet: "Tekla Common", PropertyName: "WEIGHT"},
	}

	suggestions := controller.Suggest(context.Background(), request)

	assert.Len(t, suggestions, 2)
	assert.Equal(t, TargetAssemblyMark, suggestions[0].Target)
	assert.Equal(t, TargetWeight, suggestions[1].Target)
}
