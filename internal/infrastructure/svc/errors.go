package svc

import "errors"

// ErrNoAccountClient 错误：没有可用的账户数据源
var ErrNoAccountClient = errors.New("no account client configured")

// ErrStorageInitFailed 错误：存储初始化失败
var ErrStorageInitFailed = errors.New("storage initialization failed")
