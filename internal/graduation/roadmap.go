package graduation

// RoadmapEntry 요건 항목 하나의 이수 현황
type RoadmapEntry struct {
	Code            string `json:"code"`
	Name            string `json:"name"`
	PlannedSemester string `json:"planned_semester"`
	Completed       bool   `json:"completed"`
	TakenSemester   string `json:"taken_semester,omitempty"`
}

// BuildRoadmap 요건 항목별 이수 여부와 이수 학기. 순서는 요건 목록 순서를 따른다.
// 같은 과목을 여러 번 이수했다면 성적표에서 처음 나온 유효 레코드의 학기를 쓴다.
func BuildRoadmap(items []RequirementItem, records []CourseRecord) []RoadmapEntry {
	courses := Ingest(records)

	takenByKey := make(map[string]string, len(courses))
	takenByName := make(map[string]string, len(courses))
	for _, c := range courses {
		if _, ok := takenByKey[c.Key()]; !ok {
			takenByKey[c.Key()] = c.Semester
		}
		if n := Normalize(c.Name); n != "" {
			if _, ok := takenByName[n]; !ok {
				takenByName[n] = c.Semester
			}
		}
	}

	entries := make([]RoadmapEntry, 0, len(items))
	for _, it := range items {
		e := RoadmapEntry{
			Code:            it.Ref().Code,
			Name:            it.Name,
			PlannedSemester: semesterBucket(it.Semester),
		}
		if sem, ok := takenByKey[it.Key()]; ok {
			e.Completed = true
			e.TakenSemester = sem
		} else {
			for _, alias := range it.Aliases {
				if sem, ok := takenByName[Normalize(alias)]; ok && Normalize(alias) != "" {
					e.Completed = true
					e.TakenSemester = sem
					break
				}
			}
		}
		entries = append(entries, e)
	}
	return entries
}
