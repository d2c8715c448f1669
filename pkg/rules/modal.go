package rules

import "github.com/walteh/rewriterc/pkg/text"

// ModalConfirmacionVenta is the rule set for the sale confirmation modal.
const ModalConfirmacionVenta = "modal-confirmacion-venta"

const modalTarget = "src/components/ventas/caja-registradora/ModalConfirmacionVenta.tsx"

const tablerIconsBefore = `import {
  IconPlus,
  IconTrash,
  IconCreditCard,
  IconCash,
  IconBuildingBank,
} from '@tabler/icons-react';`

const puntosMudrasImport = `import { OBTENER_PUNTOS_MUDRAS, type ObtenerPuntosMudrasResponse, type PuntoMudras } from '@/components/puntos-mudras/graphql/queries';`

const uiImports = puntosMudrasImport + `
import { TexturedPanel } from '@/components/ui/TexturedFrame/TexturedPanel';
import { WoodBackdrop } from '@/components/ui/TexturedFrame/WoodBackdrop';
import CrystalButton, { CrystalSoftButton } from '@/components/ui/CrystalButton';
import { verde } from '@/ui/colores';`

const metodosPagoBefore = `const METODOS_PAGO = [
  { value: 'EFECTIVO', label: 'Efectivo', icon: IconCash },
  { value: 'TARJETA_DEBITO', label: 'Tarjeta de Débito', icon: IconCreditCard },
  { value: 'TARJETA_CREDITO', label: 'Tarjeta de Crédito', icon: IconCreditCard },
  { value: 'TRANSFERENCIA', label: 'Transferencia', icon: IconBuildingBank },
  { value: 'CHEQUE', label: 'Cheque', icon: IconBuildingBank },
  { value: 'CUENTA_CORRIENTE', label: 'Cuenta Corriente', icon: IconBuildingBank },
  { value: 'OTRO', label: 'Otro', icon: IconBuildingBank },
] as const;`

const metodosPagoAfter = `const METODOS_PAGO = [
  { value: 'EFECTIVO', label: 'Efectivo', icon: 'mdi:cash' },
  { value: 'TARJETA_DEBITO', label: 'Tarjeta de Débito', icon: 'mdi:credit-card' },
  { value: 'TARJETA_CREDITO', label: 'Tarjeta de Crédito', icon: 'mdi:credit-card-multiple' },
  { value: 'TRANSFERENCIA', label: 'Transferencia', icon: 'mdi:bank-transfer' },
  { value: 'CHEQUE', label: 'Cheque', icon: 'mdi:checkbook' },
  { value: 'CUENTA_CORRIENTE', label: 'Cuenta Corriente', icon: 'mdi:book-open-variant' },
  { value: 'OTRO', label: 'Otro', icon: 'mdi:dots-horizontal' },
] as const;`

// the template literal needs backticks, so it is spliced in
const layoutConstants = `
const VH_MAX = 85;
const HEADER_H = 88;
const FOOTER_H = 88;
const DIV_H = 3;
const CONTENT_MAX = ` + "`calc(${VH_MAX}vh - ${HEADER_H + FOOTER_H + DIV_H * 2}px)`" + `;
const NBSP = '\u00A0';

const makeColors = (base?: string) => {
  const primary = base || verde.primary;
  return {
    primary,
    primaryHover: darken(primary, 0.12),
    textStrong: darken(primary, 0.5),
    chipBorder: 'rgba(255,255,255,0.35)',
    inputBorder: alpha(primary, 0.28),
    inputBorderHover: alpha(primary, 0.42),
  };
};

const currency = (v: number) =>
  v.toLocaleString('es-AR', { style: 'currency', currency: 'ARS' });
`

func init() {
	Register(RuleSet{
		Name:          ModalConfirmacionVenta,
		DefaultTarget: modalTarget,
		ReviewNote:    "Nota: Revisa manualmente el Dialog, Paper->Card y los botones",
		Rules: []text.ReplacementRule{
			{
				Name:     "drop-button-import",
				FromText: "  Button,\n  Grid,",
				ToText:   "  Grid,",
			},
			{
				Name:     "drop-paper-import",
				FromText: "  Paper,\n  Alert,",
				ToText:   "  Alert,",
			},
			{
				Name:     "add-card-imports",
				FromText: "  IconButton,\n} from '@mui/material';",
				ToText:   "  IconButton,\n  Card,\n  CardContent,\n} from '@mui/material';",
			},
			{
				// matches the closing line re-emitted by add-card-imports
				Name:     "add-style-and-iconify-imports",
				FromText: "} from '@mui/material';",
				ToText:   "} from '@mui/material';\nimport { alpha, darken } from '@mui/material/styles';\nimport { Icon } from '@iconify/react';",
			},
			{
				Name:     "collapse-tabler-icons",
				FromText: tablerIconsBefore,
				ToText:   "import { IconPlus, IconTrash } from '@tabler/icons-react';",
			},
			{
				Name:     "add-ui-imports",
				FromText: puntosMudrasImport,
				ToText:   uiImports,
			},
			{
				Name:     "iconify-payment-methods",
				FromText: metodosPagoBefore,
				ToText:   metodosPagoAfter,
			},
			{
				Name:     "inject-layout-constants",
				FromText: "] as const;\n\nexport const ModalConfirmacionVenta",
				ToText:   "] as const;" + layoutConstants + "\nexport const ModalConfirmacionVenta",
			},
			{
				Name:     "inject-colors-memo",
				FromText: "}) => {\n  const [tipoVenta",
				ToText:   "}) => {\n  const COLORS = useMemo(() => makeColors(), []);\n  const [tipoVenta",
			},
		},
	})
}
