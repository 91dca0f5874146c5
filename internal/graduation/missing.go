package graduation

// MissingRequiredCourses 유효 과목에 없는 요건 항목을 선언된 학기별로 묶는다.
// 학기가 없는 항목은 "기타"로 가고, 누락 항목이 없는 학기는 결과에 나타나지 않는다.
func MissingRequiredCourses(items []RequirementItem, records []CourseRecord) SemesterGroups[CourseRef] {
	return missingGrouped(items, newKeySet(Ingest(records)))
}

// MissingCourses 유효 과목에 없는 요건 항목 (그룹 없이 선언 순서)
func MissingCourses(items []RequirementItem, records []CourseRecord) []CourseRef {
	return missingFlat(items, newKeySet(Ingest(records)))
}

func missingFlat(items []RequirementItem, ks keySet) []CourseRef {
	missing := []CourseRef{}
	for _, it := range items {
		if !ks.contains(it) {
			missing = append(missing, it.Ref())
		}
	}
	return missing
}

func missingGrouped(items []RequirementItem, ks keySet) SemesterGroups[CourseRef] {
	var missing []RequirementItem
	for _, it := range items {
		if !ks.contains(it) {
			missing = append(missing, it)
		}
	}
	groups := groupBySemester(missing, func(it RequirementItem) string { return it.Semester })
	result := make(SemesterGroups[CourseRef], len(groups))
	for i, g := range groups {
		refs := make([]CourseRef, len(g.Items))
		for j, it := range g.Items {
			refs[j] = it.Ref()
		}
		result[i] = SemesterGroup[CourseRef]{Semester: g.Semester, Items: refs}
	}
	return result
}

// MissingInSemester 특정 학기에 배정된 요건 항목 중 어느 학기에도 이수하지 않은 항목
func MissingInSemester(items []RequirementItem, records []CourseRecord, semester string) []CourseRef {
	semester = semesterBucket(semester)
	ks := newKeySet(Ingest(records))
	missing := []CourseRef{}
	for _, it := range items {
		if semesterBucket(it.Semester) != semester || ks.contains(it) {
			continue
		}
		missing = append(missing, it.Ref())
	}
	return missing
}

// missingNames 누락 과목 이름 (학기 순)
func missingNames(groups SemesterGroups[CourseRef]) []string {
	var names []string
	for _, g := range groups {
		for _, ref := range g.Items {
			names = append(names, ref.Name)
		}
	}
	return names
}
