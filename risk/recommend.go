package risk

import (
	"github.com/CittaaHealthServices/vocalysis/models"
)

// Professional-support recommendation. At high and critical risk it is
// always the first entry of the list, never omitted regardless of the
// other rule matches.
const professionalSupport = "Please consider reaching out to a mental health professional. If you are in crisis, contact your local crisis helpline immediately."

// General-wellness recommendation appended to every report.
const generalWellness = "Maintain a regular sleep schedule, daily physical activity and social contact; these protect mental wellbeing regardless of current scores."

// conditionRules maps (dominant condition, risk level) to the ordered
// condition-specific recommendations. The table is fixed at build time so
// reports are fully deterministic.
var conditionRules = map[models.Class]map[Level][]string{
	models.ClassNormal: {
		LevelLow: {
			"Your voice biomarkers look within typical ranges. Keep up your current routines.",
		},
		LevelModerate: {
			"Some indicators are slightly elevated. A short daily mindfulness practice can help keep them in range.",
		},
	},
	models.ClassStress: {
		LevelLow: {
			"Mild stress indicators detected. Short breaks and breathing exercises through the day can help.",
		},
		LevelModerate: {
			"Try structured relaxation such as progressive muscle relaxation or a 10-minute guided breathing session.",
			"Review workload and sleep; persistent stress responds well to routine changes.",
		},
		LevelHigh: {
			"Your stress indicators are high. Reduce commitments where possible this week.",
			"Consider stress-management support such as counselling or a structured program.",
		},
		LevelCritical: {
			"Sustained severe stress affects physical health; professional support is strongly recommended.",
		},
	},
	models.ClassAnxiety: {
		LevelLow: {
			"Mild anxiety indicators detected. Grounding exercises can help when you notice worry building.",
		},
		LevelModerate: {
			"Practice slow breathing (4-7-8 pattern) twice daily; limit caffeine late in the day.",
			"Keeping a worry journal can make anxious thoughts easier to manage.",
		},
		LevelHigh: {
			"Your anxiety indicators are high. Cognitive behavioural techniques are effective; consider a referral.",
		},
		LevelCritical: {
			"Severe anxiety indicators detected; a clinical assessment is recommended.",
		},
	},
	models.ClassDepression: {
		LevelLow: {
			"Mild low-mood indicators detected. Daylight exposure and gentle exercise support mood.",
		},
		LevelModerate: {
			"Schedule one enjoyable activity per day, however small; behavioural activation is effective for low mood.",
			"Stay connected with friends or family this week.",
		},
		LevelHigh: {
			"Your low-mood indicators are high. A conversation with your GP or a counsellor is a good next step.",
		},
		LevelCritical: {
			"Severe depression indicators detected; please arrange a clinical assessment promptly.",
		},
	},
}

// Recommend returns the ordered recommendation list for a dominant condition
// and risk level. The list always contains at least the general-wellness
// entry; at high or critical risk the professional-support entry always
// comes first.
func Recommend(condition models.Class, level Level) []string {
	var recommendations []string

	if level.AtLeast(LevelHigh) {
		recommendations = append(recommendations, professionalSupport)
	}

	if byLevel, ok := conditionRules[condition]; ok {
		recommendations = append(recommendations, byLevel[level]...)
	}

	recommendations = append(recommendations, generalWellness)

	return recommendations
}
