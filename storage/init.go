package storage

import (
	"MyPetCare/config"
	"MyPetCare/storage/redis"
)

// 统一 init storage 层，会话默认存放在进程内，只有 redis 模式需要外部连接
func Init() error {
	if config.Cfg.UseRedisSessions() {
		if err := redis.Init(); err != nil {
			return err
		}
	}

	return nil
}
