// Package idgen 实体ID生成
//
// 使用UUIDv7：前48位是毫秒时间戳，按字符串排序即按创建顺序排序，
// 所有存储驱动（MySQL、MongoDB、内存）使用同一种ID。
package idgen

import "github.com/google/uuid"

// New 生成新的实体ID
func New() string {
	id, err := uuid.NewV7()
	if err != nil {
		// 随机源不可用时退化为v4（失去有序性，但不影响唯一性）
		return uuid.NewString()
	}
	return id.String()
}

// Valid 判断字符串是否为合法UUID
func Valid(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
