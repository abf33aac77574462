package textprep

import (
	"github.com/cognicore/textprep/pkg/textprep/config"
	"github.com/cognicore/textprep/pkg/textprep/entities"
	"github.com/cognicore/textprep/pkg/textprep/patterns"
	"github.com/cognicore/textprep/pkg/textprep/spell"
)

// Stage names in pipeline order.
const (
	StageUnicode      = "unicode"
	StageLinebreak    = "linebreak"
	StageScaffolding  = "scaffolding"
	StageDatetime     = "datetime"
	StageSpacing      = "spacing"
	StageSpelling     = "spelling"
	StageEntities     = "entities"
	StageFinalSpacing = "final_spacing"
)

// Stage is one step of the pipeline.
type Stage struct {
	Name    string
	Enabled func(cfg config.Config) bool
	Apply   func(text string) (string, StageReport)
}

// StageReport records what a stage did to one document.
type StageReport struct {
	Name   string
	Counts patterns.Counts
	// Set by the spelling stage only.
	Spelling *spell.Report
	// Recovered is true when the stage failed and its input was kept.
	Recovered bool
}

func patternStage(name string, enabled func(config.Config) bool, rw patterns.Rewrite) Stage {
	return Stage{
		Name:    name,
		Enabled: enabled,
		Apply: func(text string) (string, StageReport) {
			out, counts := rw(text)
			return out, StageReport{Counts: counts}
		},
	}
}

// buildStages returns the stage list. Scaffolding is stripped after
// unicode and linebreak repair so its patterns see clean text; spelling
// runs after spacing and dates so the tokenizer sees regular spacing; the
// final spacing pass absorbs spacing introduced by later substitutions.
func buildStages(corrector *spell.Corrector, masker *entities.Masker) []Stage {
	return []Stage{
		patternStage(StageUnicode,
			func(c config.Config) bool { return c.NormalizeUnicode },
			patterns.NormalizeUnicode),
		patternStage(StageLinebreak,
			func(c config.Config) bool { return c.FixLinebreakHyphenation },
			patterns.FixLinebreakHyphenation),
		patternStage(StageScaffolding,
			func(c config.Config) bool { return c.StripWireScaffolding },
			patterns.StripWireScaffolding),
		patternStage(StageDatetime,
			func(c config.Config) bool { return c.NormalizeDatesTimes },
			patterns.NormalizeDatesTimes),
		patternStage(StageSpacing,
			func(c config.Config) bool { return c.NormalizeSpacingPunct },
			patterns.NormalizeSpacingPunct),
		{
			Name:    StageSpelling,
			Enabled: func(c config.Config) bool { return c.ConservativeSpelling },
			Apply: func(text string) (string, StageReport) {
				out, rep := corrector.Correct(text)
				return out, StageReport{
					Counts: patterns.Counts{
						"eligible": rep.Eligible,
						"proposed": rep.Proposed,
						"applied":  rep.Applied,
					},
					Spelling: &rep,
				}
			},
		},
		{
			Name:    StageEntities,
			Enabled: func(c config.Config) bool { return c.EntityMasking },
			Apply: func(text string) (string, StageReport) {
				out, counts := masker.Mask(text)
				return out, StageReport{Counts: counts}
			},
		},
		patternStage(StageFinalSpacing,
			func(c config.Config) bool { return c.NormalizeSpacingPunct },
			patterns.NormalizeSpacingPunct),
	}
}
