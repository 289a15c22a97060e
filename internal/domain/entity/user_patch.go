package entity

// UserPatch is a partial update. Only fields that are set are applied.
type UserPatch struct {
	Username     Optional[string] `json:"username"`
	Name         Optional[string] `json:"name"`
	Lastname     Optional[string] `json:"lastname"`
	Address      Optional[string] `json:"address"`
	Gender       Optional[string] `json:"gender"`
	Email        Optional[string] `json:"email"`
	Password     Optional[string] `json:"password"`
	Bio          Optional[string] `json:"bio"`
	ProfileImage Optional[string] `json:"profile_image"`
}

// Column names as stored; used by repositories to write only supplied fields.
const (
	FieldUsername     = "username"
	FieldName         = "name"
	FieldLastname     = "lastname"
	FieldAddress      = "address"
	FieldGender       = "gender"
	FieldEmail        = "email"
	FieldPassword     = "password"
	FieldBio          = "bio"
	FieldProfileImage = "profile_image"
)

// Fields lists the supplied fields in a stable order.
func (p UserPatch) Fields() []string {
	out := make([]string, 0, 9)
	add := func(set bool, name string) {
		if set {
			out = append(out, name)
		}
	}
	add(p.Username.IsSet(), FieldUsername)
	add(p.Name.IsSet(), FieldName)
	add(p.Lastname.IsSet(), FieldLastname)
	add(p.Address.IsSet(), FieldAddress)
	add(p.Gender.IsSet(), FieldGender)
	add(p.Email.IsSet(), FieldEmail)
	add(p.Password.IsSet(), FieldPassword)
	add(p.Bio.IsSet(), FieldBio)
	add(p.ProfileImage.IsSet(), FieldProfileImage)
	return out
}

func (p UserPatch) IsEmpty() bool {
	return len(p.Fields()) == 0
}
