package report_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"
	"go.trai.ch/incc/internal/adapters/report"
	"go.trai.ch/incc/internal/core/domain"
	"go.trai.ch/incc/internal/ui/output"
)

func render(t *testing.T, rep *domain.BuildReport) []byte {
	t.Helper()
	var buf bytes.Buffer
	r := report.NewWithOutput(output.NewWithProfile(&buf, output.Ascii))
	require.NoError(t, r.Report(rep))
	return buf.Bytes()
}

func TestRenderer_Report(t *testing.T) {
	tests := []struct {
		name string
		rep  *domain.BuildReport
	}{
		{
			name: "mixed",
			rep: &domain.BuildReport{
				Invocations: 3,
				Outcomes: []domain.UnitOutcome{
					{RelativePath: "com/acme/Broken.java", Status: domain.UnitStatusFailed,
						Diagnostics: "Broken.java:3: error: ';' expected\n    int x = 1\n             ^\n1 error\n",
						Duration:    412 * time.Millisecond},
					{RelativePath: "com/acme/Main.java", Status: domain.UnitStatusCompiled, Duration: 1254 * time.Millisecond},
					{RelativePath: "com/acme/Old.java", Status: domain.UnitStatusRemoved},
					{RelativePath: "com/acme/Util.java", Status: domain.UnitStatusSkipped},
					{RelativePath: "com/acme/Uses.java", Status: domain.UnitStatusCompiled, Duration: 300 * time.Microsecond},
				},
			},
		},
		{
			name: "empty",
			rep:  &domain.BuildReport{},
		},
		{
			name: "single",
			rep: &domain.BuildReport{
				Invocations: 1,
				Outcomes: []domain.UnitOutcome{
					{RelativePath: "Main.java", Status: domain.UnitStatusCompiled, Duration: 87*time.Millisecond + 400*time.Microsecond},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := goldie.New(t)
			g.Assert(t, "report_"+tt.name, render(t, tt.rep))
		})
	}
}
