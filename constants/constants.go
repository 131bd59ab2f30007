package constants

const (
	ROLE_ADMIN = "ADMIN"
	ROLE_STAFF = "STAFF"
)

const (
	MISSING_LOGIN_INPUT  = "Username and password are required"
	INVALID_USERNAME     = "Username does not exist"
	INVALID_PASSWORD     = "Password does not match"
	ACCOUNT_NOT_ACTIVE   = "Account has been deactivated"
	NOT_ADMIN            = "Admin permission required"
	ERROR_INTERNAL_ERROR = "Internal server error"
)
