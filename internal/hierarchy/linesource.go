package hierarchy

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"hier-api/internal/logger"
)

// LineSource：多 worker 共享的串行化行游标
// 背景：解析阶段唯一的共享可变资源；互斥仅覆盖"取下一行"本身，昂贵的解析
// 在锁外执行，单游标因此是可接受的瓶颈而非限制
// 约束：最多 8 个并发调用方；行长不设上限；输入耗尽后 NextLine 恒返回 false
type LineSource struct {
	mu   sync.Mutex
	rd   *bufio.Reader
	f    *os.File
	done bool
}

// OpenLineSource：打开文件数据源
// 异常：打开失败是整个读取操作唯一的致命错误，错误携带路径，发生且仅发生在构造期
func OpenLineSource(path string) (*LineSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open hierarchy source %s: %w", path, err)
	}
	src := NewLineSource(f)
	src.f = f
	return src, nil
}

// NewLineSource：从任意 Reader 构造，保留直接注入的能力用于测试与管道场景
func NewLineSource(r io.Reader) *LineSource {
	return &LineSource{rd: bufio.NewReaderSize(r, 64*1024)}
}

// NextLine：弹出下一行；输入耗尽返回 false
// 约束：按分隔符逐段读取而非定长缓冲扫描，超长行不会被截断或静默丢弃；
// 中途 I/O 错误记录日志并视为输入耗尽
func (s *LineSource) NextLine() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done {
		return "", false
	}
	line, err := s.rd.ReadString('\n')
	if err != nil {
		s.done = true
		if err != io.EOF {
			logger.L().Error("hier_read_error", "err", err)
		}
		if line == "" {
			return "", false
		}
	}
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return line, true
}

// Close：关闭底层文件；从 Reader 构造时为空操作
func (s *LineSource) Close() error {
	if s.f == nil {
		return nil
	}
	return s.f.Close()
}
