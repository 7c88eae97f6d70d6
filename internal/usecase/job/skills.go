package job

import "encoding/json"

// EncodeSkills serialises the skills list for the required_skills column.
func EncodeSkills(skills []string) (string, error) {
	if skills == nil {
		skills = []string{}
	}
	b, err := json.Marshal(skills)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// DecodeSkills is the inverse of EncodeSkills. An empty column decodes to nil.
func DecodeSkills(s string) ([]string, error) {
	if s == "" {
		return nil, nil
	}
	out := []string{}
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, err
	}
	return out, nil
}
