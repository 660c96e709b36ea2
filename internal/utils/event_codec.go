package utils

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/near/borsh-go"
)

const eventTypeSize = 4

var ErrShortEvent = errors.New("event data shorter than type prefix")

// EncodeEvent 将事件编码为带事件类型前缀的二进制数据：
// - 前 4 字节为事件类型（uint32，小端序）
// - 后续为 borsh 序列化数据
func EncodeEvent(eventType uint32, v interface{}) ([]byte, error) {
	body, err := borsh.Serialize(v)
	if err != nil {
		return nil, fmt.Errorf("EncodeEvent: marshal %T: %w", v, err)
	}
	buf := make([]byte, eventTypeSize, eventTypeSize+len(body))
	binary.LittleEndian.PutUint32(buf, eventType)
	return append(buf, body...), nil
}

// DecodeEvent 读取事件类型前缀并把 body 解码到 v（必须为指针）
func DecodeEvent(data []byte, v interface{}) (eventType uint32, err error) {
	if len(data) < eventTypeSize {
		return 0, ErrShortEvent
	}
	eventType = binary.LittleEndian.Uint32(data[:eventTypeSize])

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("DecodeEvent: borsh.Deserialize panic: %v", r)
		}
	}()
	if err := borsh.Deserialize(v, data[eventTypeSize:]); err != nil {
		return eventType, fmt.Errorf("DecodeEvent: unmarshal %T: %w", v, err)
	}
	return eventType, nil
}
