package onboarding

import (
	"fmt"

	pkgerrors "MyPetCare/pkg/errors"
)

// FieldKind 区分单值字段与多选字段。
type FieldKind int

const (
	KindScalar FieldKind = iota
	KindSet
)

func (k FieldKind) String() string {
	if k == KindSet {
		return "set"
	}
	return "scalar"
}

func (k FieldKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Field 是表单字段的封闭枚举。
type Field string

// 表单字段，按步骤分组
const (
	// tutor
	FieldTutorName       Field = "tutorName"
	FieldExperienceLevel Field = "experienceLevel"
	// petType
	FieldPetType Field = "petType"
	// petInfo
	FieldPetName  Field = "petName"
	FieldPetPhoto Field = "petPhoto"
	FieldBreed    Field = "breed"
	FieldAgeGroup Field = "ageGroup"
	FieldWeight   Field = "weight"
	// health
	FieldHasHealthCondition     Field = "hasHealthCondition"
	FieldHealthConditionDetails Field = "healthConditionDetails"
	FieldVaccinesUpToDate       Field = "vaccinesUpToDate"
	FieldTakesMedication        Field = "takesMedication"
	// behavior
	FieldBehaviorType          Field = "behaviorType"
	FieldBehaviorProblems      Field = "behaviorProblems"
	FieldBehaviorProblemsOther Field = "behaviorProblemsOther"
	// routine
	FieldWalkFrequency Field = "walkFrequency"
	FieldFoodType      Field = "foodType"
	FieldFeedingTimes  Field = "feedingTimes"
	// notifications
	FieldReminderPreference Field = "reminderPreference"
	FieldCareTracking       Field = "careTracking"
)

var fieldKinds = map[Field]FieldKind{
	FieldTutorName:              KindScalar,
	FieldExperienceLevel:        KindScalar,
	FieldPetType:                KindScalar,
	FieldPetName:                KindScalar,
	FieldPetPhoto:               KindScalar,
	FieldBreed:                  KindScalar,
	FieldAgeGroup:               KindScalar,
	FieldWeight:                 KindScalar,
	FieldHasHealthCondition:     KindScalar,
	FieldHealthConditionDetails: KindScalar,
	FieldVaccinesUpToDate:       KindScalar,
	FieldTakesMedication:        KindScalar,
	FieldBehaviorType:           KindSet,
	FieldBehaviorProblems:       KindSet,
	FieldBehaviorProblemsOther:  KindScalar,
	FieldWalkFrequency:          KindScalar,
	FieldFoodType:               KindScalar,
	FieldFeedingTimes:           KindSet,
	FieldReminderPreference:     KindScalar,
	FieldCareTracking:           KindSet,
}

// fieldOrder 展示顺序
var fieldOrder = []Field{
	FieldTutorName, FieldExperienceLevel,
	FieldPetType,
	FieldPetName, FieldPetPhoto, FieldBreed, FieldAgeGroup, FieldWeight,
	FieldHasHealthCondition, FieldHealthConditionDetails, FieldVaccinesUpToDate, FieldTakesMedication,
	FieldBehaviorType, FieldBehaviorProblems, FieldBehaviorProblemsOther,
	FieldWalkFrequency, FieldFoodType, FieldFeedingTimes,
	FieldReminderPreference, FieldCareTracking,
}

// Fields 按展示顺序返回全部字段。
func Fields() []Field {
	out := make([]Field, len(fieldOrder))
	copy(out, fieldOrder)
	return out
}

// ParseField 校验字段名，未知名称返回 OnboardingFieldInvalid。
func ParseField(name string) (Field, error) {
	f := Field(name)
	if !f.Valid() {
		return "", fmt.Errorf("%w: %q", pkgerrors.OnboardingFieldInvalid, name)
	}
	return f, nil
}

func (f Field) Valid() bool {
	_, ok := fieldKinds[f]
	return ok
}

// Kind 返回字段类型，调用前应保证字段合法。
func (f Field) Kind() FieldKind {
	return fieldKinds[f]
}

func (f Field) String() string {
	return string(f)
}
