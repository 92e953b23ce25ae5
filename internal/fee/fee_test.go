package fee

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"reunion/internal/model"
)

func TestExpected(t *testing.T) {
	calc := NewCalculator(Config{
		AdultFee:   500,
		ChildFee:   300,
		Surcharge:  1000,
		StudentFee: 500,
	})

	tests := []struct {
		name    string
		role    string
		session string
		adult   int
		child   int
		want    int
	}{
		{"alumni standard schedule", model.RoleAlumni, "2022-2023", 2, 1, 2300},
		{"alumni single adult", model.RoleAlumni, "2005-2006", 1, 0, 1500},
		{"alumni many participants", model.RoleAlumni, "2010-2011", 4, 3, 3900},
		{"legacy session 2019-2020", model.RoleAlumni, "2019-2020", 2, 1, 2500},
		{"legacy session 2018-2019", model.RoleAlumni, "2018-2019", 1, 2, 2000},
		{"legacy session no surcharge", model.RoleAlumni, "2019-2020", 1, 0, 1000},
		{"student flat fee", model.RoleStudent, "2022-2023", 1, 0, 500},
		{"student fee ignores counts and session", model.RoleStudent, "2019-2020", 3, 2, 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calc.Expected(tt.role, tt.session, tt.adult, tt.child)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExpectedUsesInjectedSchedule(t *testing.T) {
	calc := NewCalculator(Config{AdultFee: 700, ChildFee: 200, Surcharge: 500, StudentFee: 350})

	assert.Equal(t, 2*700+1*200+500, calc.Expected(model.RoleAlumni, "2021-2022", 2, 1))
	assert.Equal(t, 350, calc.Expected(model.RoleStudent, "2021-2022", 1, 0))
}
