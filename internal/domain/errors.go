package domain

import "errors"

var (
	// ErrNotFound 表示所依赖的实体（公告、人事部门、请求等）不存在，必须向调用方暴露
	ErrNotFound = errors.New("资源不存在")
	// ErrInvalidState 表示状态机不允许的迁移，例如响应一个已处理的请求
	ErrInvalidState = errors.New("当前状态不允许该操作")
	// ErrInsufficientCandidates 表示候选池已耗尽，编组只能保持缺员
	ErrInsufficientCandidates = errors.New("没有可用的候选面试官")
	// ErrTransientStore 表示数据库竞争或超时，单个操作可以安全重试
	ErrTransientStore = errors.New("存储暂时不可用")
)
