package enums

type SessionState string

const (
	SessionStateInitializing    SessionState = "initializing"
	SessionStateUnauthenticated SessionState = "unauthenticated"
	SessionStateAuthenticated   SessionState = "authenticated"
)

type SessionEvent string

const (
	SessionEventRestored    SessionEvent = "session.restored"
	SessionEventLogin       SessionEvent = "session.login"
	SessionEventRegister    SessionEvent = "session.register"
	SessionEventLogout      SessionEvent = "session.logout"
	SessionEventInvalidated SessionEvent = "session.invalidated"
)

const (
	StoreDriverFile   = "file"
	StoreDriverRedis  = "redis"
	StoreDriverMemory = "memory"
)
