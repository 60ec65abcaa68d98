// Package office 集中管理 UniOffice 许可证。
// 文档抽取和导出都依赖 unioffice，许可证只能设置一次，
// 统一从这里初始化避免重复注册。
package office

import (
	"fmt"
	"sync"

	"github.com/unidoc/unioffice/common/license"
)

const meteredKey = "c1609bf36881094add1da9ca73148904a289319d80e190b55c99687c84143e1c"

var once sync.Once

// EnsureLicense 设置 UniOffice 许可证密钥（幂等）
func EnsureLicense() {
	once.Do(func() {
		if err := license.SetMeteredKey(meteredKey); err != nil {
			panic(fmt.Sprintf("failed to set unioffice license: %v", err))
		}
	})
}
