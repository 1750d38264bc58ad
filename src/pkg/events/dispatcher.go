package events

import (
	"context"
	"sync"

	"github.com/yuhaohwang/flv-inspector/src/instance"
	"github.com/yuhaohwang/flv-inspector/src/interfaces"
)

// NewDispatcher 创建一个新的事件分发器，并挂到上下文中的实例上。
func NewDispatcher(ctx context.Context) Dispatcher {
	ed := &dispatcher{
		saver: make(map[EventType][]*EventListener),
	}
	if inst := instance.GetInstance(ctx); inst != nil {
		inst.EventDispatcher = ed
	}
	return ed
}

// Dispatcher 定义事件分发器的接口。
type Dispatcher interface {
	interfaces.Module
	AddEventListener(eventType EventType, listener *EventListener)
	RemoveEventListener(eventType EventType, listener *EventListener)
	RemoveAllEventListener(eventType EventType)
	DispatchEvent(event *Event)
}

// GetDispatcher 返回上下文实例中的分发器，不存在时返回 nil。
func GetDispatcher(ctx context.Context) Dispatcher {
	inst := instance.GetInstance(ctx)
	if inst == nil {
		return nil
	}
	ed, _ := inst.EventDispatcher.(Dispatcher)
	return ed
}

// dispatcher 按注册顺序同步调用监听器。
// 标签在下一次读取前即被丢弃，监听器必须在 DispatchEvent 返回前处理完事件。
type dispatcher struct {
	sync.RWMutex
	saver map[EventType][]*EventListener
}

func (e *dispatcher) Start(ctx context.Context) error {
	return nil
}

// Close 移除全部监听器。
func (e *dispatcher) Close(ctx context.Context) {
	e.Lock()
	defer e.Unlock()
	e.saver = make(map[EventType][]*EventListener)
}

// AddEventListener 添加事件监听器，nil 监听器被忽略。
func (e *dispatcher) AddEventListener(eventType EventType, listener *EventListener) {
	if listener == nil {
		return
	}
	e.Lock()
	defer e.Unlock()
	e.saver[eventType] = append(e.saver[eventType], listener)
}

// RemoveEventListener 移除事件监听器。
func (e *dispatcher) RemoveEventListener(eventType EventType, listener *EventListener) {
	e.Lock()
	defer e.Unlock()

	listeners := e.saver[eventType]
	kept := listeners[:0]
	for _, l := range listeners {
		if l != listener {
			kept = append(kept, l)
		}
	}
	if len(kept) == 0 {
		delete(e.saver, eventType)
		return
	}
	e.saver[eventType] = kept
}

// RemoveAllEventListener 移除指定事件类型的所有监听器。
func (e *dispatcher) RemoveAllEventListener(eventType EventType) {
	e.Lock()
	defer e.Unlock()
	delete(e.saver, eventType)
}

// DispatchEvent 分发事件。
func (e *dispatcher) DispatchEvent(event *Event) {
	if event == nil {
		return
	}

	// 复制一份监听器列表，处理函数中可以安全地增删监听器
	e.RLock()
	hs := append([]*EventListener(nil), e.saver[event.Type]...)
	e.RUnlock()

	for _, h := range hs {
		h.Handler(event)
	}
}
