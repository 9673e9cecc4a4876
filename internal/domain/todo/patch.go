package todo

// Patch は部分更新の入力。nil のフィールドは「指定なし」で、既存値を変えない。
// completed=false のように「値はあるが falsy」なものもちゃんと反映する（存在で判定する）。
type Patch struct {
	Text      *string
	Completed *bool
}

// IsEmpty は何も指定されていない patch かどうか。
func (p Patch) IsEmpty() bool {
	return p.Text == nil && p.Completed == nil
}

// Apply は patch の指定フィールドだけを t に反映する。
// バリデーションに失敗した場合 t は変更しない。
func (t *Todo) Apply(p Patch) error {
	if p.Text != nil {
		if err := t.ChangeText(*p.Text); err != nil {
			return err
		}
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	return nil
}
