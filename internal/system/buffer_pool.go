package system

import (
	"image"
	"sync"
)

// ImagePool переиспользует кадры превью (*image.RGBA) одного размера,
// чтобы рендер сотен кадров не нагружал Garbage Collector (GC).
type ImagePool struct {
	pools map[image.Rectangle]*sync.Pool
	mu    sync.RWMutex
}

var globalPool = NewImagePool()

func NewImagePool() *ImagePool {
	return &ImagePool{pools: make(map[image.Rectangle]*sync.Pool)}
}

// GetImage возвращает кадр из общего пула. Содержимое кадра не очищается.
func GetImage(rect image.Rectangle) *image.RGBA {
	return globalPool.Get(rect)
}

// PutImage возвращает кадр в общий пул.
func PutImage(img *image.RGBA) {
	globalPool.Put(img)
}

func (p *ImagePool) Get(rect image.Rectangle) *image.RGBA {
	p.mu.RLock()
	pool, exists := p.pools[rect]
	p.mu.RUnlock()

	if !exists {
		p.mu.Lock()
		pool, exists = p.pools[rect]
		if !exists {
			pool = &sync.Pool{
				New: func() interface{} {
					return image.NewRGBA(rect)
				},
			}
			p.pools[rect] = pool
		}
		p.mu.Unlock()
	}

	return pool.Get().(*image.RGBA)
}

// Put принимает только кадры размера, для которого пул уже создан.
func (p *ImagePool) Put(img *image.RGBA) {
	if img == nil {
		return
	}
	p.mu.RLock()
	pool, exists := p.pools[img.Rect]
	p.mu.RUnlock()

	if exists {
		pool.Put(img)
	}
}
