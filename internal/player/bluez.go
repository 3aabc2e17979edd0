package player

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/godbus/dbus/v5"
	"go.uber.org/zap"
)

// busConn 系统总线连接中用到的部分（便于测试替换）
type busConn interface {
	Object(dest string, path dbus.ObjectPath) dbus.BusObject
	AddMatchSignalContext(ctx context.Context, options ...dbus.MatchOption) error
	RemoveMatchSignalContext(ctx context.Context, options ...dbus.MatchOption) error
	Signal(ch chan<- *dbus.Signal)
	RemoveSignal(ch chan<- *dbus.Signal)
	Close() error
}

// Bluez 基于 BlueZ org.bluez.MediaPlayer1 的播放器实现
type Bluez struct {
	conn   busConn
	logger *zap.Logger

	mu   sync.RWMutex
	path dbus.ObjectPath
}

// Dial 连接系统总线
func Dial(logger *zap.Logger) (*Bluez, error) {
	conn, err := dbus.ConnectSystemBus()
	if err != nil {
		return nil, fmt.Errorf("connect system bus: %w", err)
	}
	return newBluez(conn, logger), nil
}

func newBluez(conn busConn, logger *zap.Logger) *Bluez {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bluez{conn: conn, logger: logger}
}

// Close 关闭总线连接
func (b *Bluez) Close() error { return b.conn.Close() }

// Path 当前播放器对象路径
func (b *Bluez) Path() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return string(b.path)
}

// FindPlayer 通过 ObjectManager 查找首个 MediaPlayer1 对象并读取其全部属性与设备别名
func (b *Bluez) FindPlayer(ctx context.Context) (*Snapshot, error) {
	var objects map[dbus.ObjectPath]map[string]map[string]dbus.Variant
	err := b.conn.Object(BluezService, "/").
		CallWithContext(ctx, ifaceObjectManager+".GetManagedObjects", 0).
		Store(&objects)
	if err != nil {
		return nil, fmt.Errorf("get managed objects: %w", err)
	}

	paths := make([]string, 0, len(objects))
	for p, ifaces := range objects {
		if _, ok := ifaces[IfaceMediaPlayer]; ok {
			paths = append(paths, string(p))
		}
	}
	if len(paths) == 0 {
		b.setPath("")
		return nil, ErrNoPlayer
	}
	sort.Strings(paths)
	path := dbus.ObjectPath(paths[0])

	var props map[string]dbus.Variant
	err = b.conn.Object(BluezService, path).
		CallWithContext(ctx, ifaceProperties+".GetAll", 0, IfaceMediaPlayer).
		Store(&props)
	if err != nil {
		return nil, fmt.Errorf("get player properties %s: %w", path, err)
	}
	b.setPath(path)

	snap := &Snapshot{Path: string(path), Properties: PlainMap(props)}
	if dev, ok := snap.Properties[PropDevice].(string); ok && dev != "" {
		snap.Device = dev
		alias, err := b.conn.Object(BluezService, dbus.ObjectPath(dev)).GetProperty(IfaceDevice + "." + PropAlias)
		if err != nil {
			b.logger.Warn("read device alias failed", zap.String("device", dev), zap.Error(err))
		} else if s, ok := alias.Value().(string); ok {
			snap.Alias = s
		}
	}
	return snap, nil
}

func (b *Bluez) setPath(p dbus.ObjectPath) {
	b.mu.Lock()
	b.path = p
	b.mu.Unlock()
}

var propertiesChanged = []dbus.MatchOption{
	dbus.WithMatchSender(BluezService),
	dbus.WithMatchInterface(ifaceProperties),
	dbus.WithMatchMember("PropertiesChanged"),
}

// Run 订阅 BlueZ 的 PropertiesChanged 信号并回调 handle，直到 ctx 取消
func (b *Bluez) Run(ctx context.Context, handle func(context.Context, Event)) error {
	if err := b.conn.AddMatchSignalContext(ctx, propertiesChanged...); err != nil {
		return fmt.Errorf("add match: %w", err)
	}
	ch := make(chan *dbus.Signal, 32)
	b.conn.Signal(ch)
	defer func() {
		b.conn.RemoveSignal(ch)
		_ = b.conn.RemoveMatchSignalContext(context.Background(), propertiesChanged...)
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case sig, ok := <-ch:
			if !ok {
				return fmt.Errorf("dbus signal channel closed")
			}
			ev, ok := eventFromSignal(sig)
			if !ok {
				continue
			}
			b.logger.Debug("player event",
				zap.String("iface", ev.Short()),
				zap.String("path", ev.Path),
				zap.Any("changed", ev.Changed))
			handle(ctx, ev)
		}
	}
}

func (b *Bluez) call(ctx context.Context, method string) error {
	b.mu.RLock()
	path := b.path
	b.mu.RUnlock()
	if path == "" {
		return ErrNoPlayer
	}
	call := b.conn.Object(BluezService, path).CallWithContext(ctx, IfaceMediaPlayer+"."+method, 0)
	if call.Err != nil {
		return fmt.Errorf("%s %s: %w", method, path, call.Err)
	}
	return nil
}

func (b *Bluez) Play(ctx context.Context) error        { return b.call(ctx, "Play") }
func (b *Bluez) Pause(ctx context.Context) error       { return b.call(ctx, "Pause") }
func (b *Bluez) Next(ctx context.Context) error        { return b.call(ctx, "Next") }
func (b *Bluez) Previous(ctx context.Context) error    { return b.call(ctx, "Previous") }
func (b *Bluez) FastForward(ctx context.Context) error { return b.call(ctx, "FastForward") }
func (b *Bluez) Rewind(ctx context.Context) error      { return b.call(ctx, "Rewind") }
