package params

type Register struct {
	Login       string
	Password    string
	DisplayName string
	Handle      string
}

func NewRegister(login, password, displayName, handle string) *Register {
	return &Register{
		Login:       login,
		Password:    password,
		DisplayName: displayName,
		Handle:      handle,
	}
}
