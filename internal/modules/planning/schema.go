package planning

// Strict json_schema mode requires additionalProperties=false and every
// property listed in required. Optional fields are sent as empty arrays.

func topicSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"name":        map[string]any{"type": "string"},
			"description": map[string]any{"type": "string"},
			"hours":       map[string]any{"type": "number"},
			"priority":    map[string]any{"type": "integer"},
		},
		"required":             []string{"name", "description", "hours", "priority"},
		"additionalProperties": false,
	}
}

func milestoneSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"id":          map[string]any{"type": "string"},
			"description": map[string]any{"type": "string"},
			"targetDate":  map[string]any{"type": "string"},
		},
		"required":             []string{"id", "description", "targetDate"},
		"additionalProperties": false,
	}
}

func stringArraySchema() map[string]any {
	return map[string]any{"type": "array", "items": map[string]any{"type": "string"}}
}

// StudyPlanSchema is the response schema sent to the model.
func StudyPlanSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"totalHours":          map[string]any{"type": "number"},
			"topics":              map[string]any{"type": "array", "items": topicSchema()},
			"suggestedTechniques": stringArraySchema(),
			"milestones":          map[string]any{"type": "array", "items": milestoneSchema()},
			"studyTips":           stringArraySchema(),
		},
		"required":             []string{"totalHours", "topics", "suggestedTechniques", "milestones", "studyTips"},
		"additionalProperties": false,
	}
}
