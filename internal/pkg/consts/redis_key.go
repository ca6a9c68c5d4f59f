package consts

const (
	SessionLocalKey   = "session:local:"
	SessionTabKey     = "session:tab:"
	BoardStateKey     = "board:state:"
	PostViewKey       = "post:view:"
	PostViewDirtyKey  = "post:view:dirty"
	PostViewFlushLock = "post:view:flush:lock"
)
