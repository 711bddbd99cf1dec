package onboarding

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "MyPetCare/pkg/errors"
)

func TestNewFormRecordDefaults(t *testing.T) {
	form := NewFormRecord()

	for _, f := range Fields() {
		v := form.Read(f)
		assert.Equal(t, f.Kind(), v.Kind, f)
		if f.Kind() == KindSet {
			assert.NotNil(t, v.Set, f)
			assert.Empty(t, v.Set, f)
		} else {
			assert.Equal(t, "", v.Scalar, f)
		}
	}
}

func TestSetScalar(t *testing.T) {
	form := NewFormRecord()

	require.NoError(t, form.SetScalar(FieldPetName, "Max"))
	assert.Equal(t, "Max", form.Read(FieldPetName).Scalar)

	require.NoError(t, form.SetScalar(FieldPetName, "Luna"))
	assert.Equal(t, "Luna", form.Scalar(FieldPetName))

	require.NoError(t, form.SetScalar(FieldPetName, ""))
	assert.Equal(t, "", form.Scalar(FieldPetName))
}

func TestSetScalarRejectsInvalidFields(t *testing.T) {
	form := NewFormRecord()

	err := form.SetScalar(Field("nickname"), "Max")
	assert.ErrorIs(t, err, pkgerrors.OnboardingFieldInvalid)

	err = form.SetScalar(FieldCareTracking, "Vacinas")
	assert.ErrorIs(t, err, pkgerrors.OnboardingFieldKindMismatch)
	assert.Empty(t, form.Set(FieldCareTracking))
}

func TestToggle(t *testing.T) {
	form := NewFormRecord()

	require.NoError(t, form.Toggle(FieldBehaviorType, "Latidos"))
	assert.Equal(t, []string{"Latidos"}, form.Set(FieldBehaviorType))

	require.NoError(t, form.Toggle(FieldBehaviorType, "Latidos"))
	assert.Empty(t, form.Set(FieldBehaviorType))
}

func TestTogglePreservesSurvivorOrder(t *testing.T) {
	form := NewFormRecord()
	for _, v := range []string{"Manhã", "Tarde", "Noite", "Livre demanda"} {
		require.NoError(t, form.Toggle(FieldFeedingTimes, v))
	}

	require.NoError(t, form.Toggle(FieldFeedingTimes, "Tarde"))
	assert.Equal(t, []string{"Manhã", "Noite", "Livre demanda"}, form.Set(FieldFeedingTimes))

	require.NoError(t, form.Toggle(FieldFeedingTimes, "Tarde"))
	assert.Equal(t, []string{"Manhã", "Noite", "Livre demanda", "Tarde"}, form.Set(FieldFeedingTimes))
}

func TestToggleUsesExactEquality(t *testing.T) {
	form := NewFormRecord()
	require.NoError(t, form.Toggle(FieldCareTracking, "Vacinas"))

	require.NoError(t, form.Toggle(FieldCareTracking, "vacinas"))
	require.NoError(t, form.Toggle(FieldCareTracking, "Vacinas "))

	assert.Equal(t, []string{"Vacinas", "vacinas", "Vacinas "}, form.Set(FieldCareTracking))
}

func TestToggleRejectsInvalidFields(t *testing.T) {
	form := NewFormRecord()

	assert.ErrorIs(t, form.Toggle(Field("hobbies"), "x"), pkgerrors.OnboardingFieldInvalid)
	assert.ErrorIs(t, form.Toggle(FieldPetName, "Max"), pkgerrors.OnboardingFieldKindMismatch)
	assert.Equal(t, "", form.Scalar(FieldPetName))
}

func TestSetReturnsCopy(t *testing.T) {
	form := NewFormRecord()
	require.NoError(t, form.Toggle(FieldBehaviorProblems, "Medo de pessoas"))

	got := form.Set(FieldBehaviorProblems)
	got[0] = "changed"

	assert.Equal(t, []string{"Medo de pessoas"}, form.Set(FieldBehaviorProblems))
}

func TestReadUnknownFieldReturnsZeroValue(t *testing.T) {
	form := NewFormRecord()
	assert.Equal(t, Value{}, form.Read(Field("unknown")))
}

func TestFormRecordJSON(t *testing.T) {
	form := NewFormRecord()
	require.NoError(t, form.SetScalar(FieldTutorName, "Maria"))
	require.NoError(t, form.SetScalar(FieldPetType, "Cachorro"))
	require.NoError(t, form.Toggle(FieldCareTracking, "Peso"))
	require.NoError(t, form.Toggle(FieldCareTracking, "Vacinas"))

	data, err := json.Marshal(form)
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Len(t, raw, len(Fields()), "every field is encoded with its default")
	assert.Equal(t, []interface{}{}, raw["feedingTimes"])

	decoded := NewFormRecord()
	require.NoError(t, json.Unmarshal(data, decoded))
	assert.Equal(t, "Maria", decoded.Scalar(FieldTutorName))
	assert.Equal(t, []string{"Peso", "Vacinas"}, decoded.Set(FieldCareTracking))
	assert.Equal(t, form.Snapshot(), decoded.Snapshot())
}

func TestFormRecordUnmarshalDropsDuplicateOptions(t *testing.T) {
	form := NewFormRecord()
	payload := `{"behaviorProblems":["Latidos","Ansiedade","Latidos"]}`
	require.NoError(t, json.Unmarshal([]byte(payload), form))
	assert.Equal(t, []string{"Latidos", "Ansiedade"}, form.Set(FieldBehaviorProblems))

	require.NoError(t, form.Toggle(FieldBehaviorProblems, "Latidos"))
	assert.Equal(t, []string{"Ansiedade"}, form.Set(FieldBehaviorProblems))

	require.NoError(t, form.Toggle(FieldBehaviorProblems, "Latidos"))
	assert.Equal(t, []string{"Ansiedade", "Latidos"}, form.Set(FieldBehaviorProblems))
}

func TestFormRecordUnmarshalRejectsBadInput(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		wantErr error
	}{
		{name: "unknown field", payload: `{"favoriteToy":"ball"}`, wantErr: pkgerrors.OnboardingFieldInvalid},
		{name: "list for scalar", payload: `{"petName":["Max"]}`, wantErr: pkgerrors.OnboardingFieldKindMismatch},
		{name: "string for set", payload: `{"careTracking":"Peso"}`, wantErr: pkgerrors.OnboardingFieldKindMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := NewFormRecord()
			err := json.Unmarshal([]byte(tt.payload), form)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestParseField(t *testing.T) {
	f, err := ParseField("behaviorType")
	require.NoError(t, err)
	assert.Equal(t, FieldBehaviorType, f)
	assert.Equal(t, KindSet, f.Kind())

	_, err = ParseField("")
	assert.ErrorIs(t, err, pkgerrors.OnboardingFieldInvalid)
}
