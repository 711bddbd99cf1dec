package onboarding

import (
	"encoding/json"
	"fmt"

	pkgerrors "MyPetCare/pkg/errors"
)

// Value 是字段的当前值，Kind 决定 Scalar 与 Set 哪个有效。
type Value struct {
	Kind   FieldKind
	Scalar string
	Set    []string
}

// Interface 返回适合 JSON 输出的值：单值字段为 string，多选字段为 []string。
func (v Value) Interface() interface{} {
	if v.Kind == KindSet {
		if v.Set == nil {
			return []string{}
		}
		return v.Set
	}
	return v.Scalar
}

// FormRecord 累积引导过程中收集的答案。
//
// 每个字段都有默认值（空字符串或空集合），读取永远不会失败。
// FormRecord 不知道当前处于哪个步骤。
type FormRecord struct {
	scalars map[Field]string
	sets    map[Field][]string
}

func NewFormRecord() *FormRecord {
	return &FormRecord{
		scalars: make(map[Field]string),
		sets:    make(map[Field][]string),
	}
}

// SetScalar 无条件覆盖单值字段，空字符串同样接受。
func (r *FormRecord) SetScalar(field Field, value string) error {
	if err := checkField(field, KindScalar); err != nil {
		return err
	}
	r.scalars[field] = value
	return nil
}

// Toggle 多选字段中已存在则移除，否则追加到末尾。移除时保留其余元素的相对顺序。
func (r *FormRecord) Toggle(field Field, value string) error {
	if err := checkField(field, KindSet); err != nil {
		return err
	}

	current := r.sets[field]
	kept := make([]string, 0, len(current)+1)
	found := false
	for _, v := range current {
		if v == value {
			found = true
			continue
		}
		kept = append(kept, v)
	}
	if !found {
		kept = append(kept, value)
	}

	r.sets[field] = kept
	return nil
}

// Read 返回字段当前值；非法字段返回零值。
func (r *FormRecord) Read(field Field) Value {
	if !field.Valid() {
		return Value{}
	}
	if field.Kind() == KindSet {
		return Value{Kind: KindSet, Set: r.Set(field)}
	}
	return Value{Kind: KindScalar, Scalar: r.scalars[field]}
}

func (r *FormRecord) Scalar(field Field) string {
	return r.scalars[field]
}

// Set 返回多选字段的副本，保证非 nil。
func (r *FormRecord) Set(field Field) []string {
	current := r.sets[field]
	out := make([]string, len(current))
	copy(out, current)
	return out
}

// Snapshot 返回全部字段（含默认值）的只读视图，供渲染层使用。
func (r *FormRecord) Snapshot() map[string]interface{} {
	out := make(map[string]interface{}, len(fieldOrder))
	for _, f := range fieldOrder {
		out[string(f)] = r.Read(f).Interface()
	}
	return out
}

func (r *FormRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Snapshot())
}

// UnmarshalJSON 拒绝未知字段与类型不符的值，缺失字段保持默认值。
func (r *FormRecord) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to decode form record: %w", err)
	}

	decoded := NewFormRecord()
	for name, msg := range raw {
		field, err := ParseField(name)
		if err != nil {
			return err
		}

		if field.Kind() == KindSet {
			var values []string
			if err := json.Unmarshal(msg, &values); err != nil {
				return fmt.Errorf("%w: %q expects a list", pkgerrors.OnboardingFieldKindMismatch, name)
			}
			if values = dedupe(values); len(values) > 0 {
				decoded.sets[field] = values
			}
			continue
		}

		var value string
		if err := json.Unmarshal(msg, &value); err != nil {
			return fmt.Errorf("%w: %q expects a string", pkgerrors.OnboardingFieldKindMismatch, name)
		}
		decoded.scalars[field] = value
	}

	*r = *decoded
	return nil
}

// dedupe 去掉重复选项，保留首次出现的顺序
func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := values[:0]
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func checkField(field Field, want FieldKind) error {
	if !field.Valid() {
		return fmt.Errorf("%w: %q", pkgerrors.OnboardingFieldInvalid, field)
	}
	if field.Kind() != want {
		return fmt.Errorf("%w: %q is a %s field", pkgerrors.OnboardingFieldKindMismatch, field, field.Kind())
	}
	return nil
}
