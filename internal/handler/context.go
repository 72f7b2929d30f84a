package handler

type ContextKey string

var (
	RankCtxKey ContextKey = "rank"
	SubCtxKey  ContextKey = "sub"
	MyInfoCtx  ContextKey = "myInfo"
)
