package catalog

// catalogSchema constrains catalog files before they are turned into rules.
const catalogSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "additionalProperties": false,
  "required": ["version", "rules"],
  "properties": {
    "version": {"type": "string", "minLength": 1},
    "no_precautions_message": {"type": "string"},
    "rules": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "additionalProperties": false,
        "required": ["analyte", "messages"],
        "anyOf": [
          {"required": ["low"]},
          {"required": ["high"]}
        ],
        "properties": {
          "analyte": {"type": "string", "minLength": 1},
          "display_name": {"type": "string"},
          "unit": {"type": "string"},
          "low": {"type": "number"},
          "high": {"type": "number"},
          "aliases": {"type": "array", "items": {"type": "string", "minLength": 1}},
          "synonyms": {"type": "array", "items": {"type": "string", "minLength": 1}},
          "match_units": {"type": "array", "items": {"type": "string"}},
          "messages": {
            "type": "object",
            "additionalProperties": false,
            "required": ["normal"],
            "properties": {
              "low": {"type": "string"},
              "normal": {"type": "string", "minLength": 1},
              "high": {"type": "string"}
            }
          },
          "precautions": {
            "type": "object",
            "additionalProperties": false,
            "properties": {
              "low": {"type": "string"},
              "high": {"type": "string"}
            }
          }
        }
      }
    }
  }
}`
